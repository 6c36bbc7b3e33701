package users

// User is the profile the Authentication API returns alongside the tokens on login.
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	FullName   string `json:"full_name"`
	EmployeeID string `json:"employee_id"`
	Type       string `json:"type"` // employee | hr
	IsActive   bool   `json:"is_active"`
	DateJoined string `json:"date_joined"`
}

// Role parses the user's type into the closed role enumeration.
func (u *User) Role() Role {
	return ParseRole(u.Type)
}
