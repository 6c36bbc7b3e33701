package users

// Role is the authorization tag stored next to the access token.
// It is a closed set: anything that is not employee or hr is RoleUnknown.
type Role int

const (
	RoleUnknown  Role = iota
	RoleEmployee      // Can submit referrals
	RoleHR            // Can review referrals and change their status
)

const (
	roleEmployeeName = "employee"
	roleHRName       = "hr"
)

// ParseRole maps the wire/storage representation onto Role.
func ParseRole(s string) Role {
	switch s {
	case roleEmployeeName:
		return RoleEmployee
	case roleHRName:
		return RoleHR
	default:
		return RoleUnknown
	}
}

// String returns the storage representation. RoleUnknown has none.
func (r Role) String() string {
	switch r {
	case RoleEmployee:
		return roleEmployeeName
	case RoleHR:
		return roleHRName
	default:
		return ""
	}
}

// Known reports whether r is one of the enumerated roles.
func (r Role) Known() bool {
	return r == RoleEmployee || r == RoleHR
}

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleEmployee, RoleHR}
}
