// Package guard decides, for a navigation to a view, whether to render it or where
// to redirect instead, given the view's role requirement and the current session.
//
// Decide applies its rules in a fixed priority order:
//
//  1. A public view (nil requirement) always renders.
//  2. An unresolved session waits: no redirect while a login/logout is in flight.
//  3. A session missing its access token or its role goes to the login path.
//  4. A session whose role is in the requirement renders.
//  5. Any other session goes to the home path of its own role.
//
// Rule 5 sends an authenticated user with the wrong role to their own home rather
// than to login, which would otherwise bounce them straight back.
package guard

import (
	"github.com/jrsteele09/referral-portal/session"
	"github.com/jrsteele09/referral-portal/users"
)

// Outcome is what the rendering layer should do.
type Outcome int

const (
	OutcomeRender Outcome = iota
	OutcomeRedirect
	OutcomeWait
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRender:
		return "render"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeWait:
		return "wait"
	default:
		return "unknown"
	}
}

// Decision is the result of a guard check. RedirectTo is set only for OutcomeRedirect.
type Decision struct {
	Outcome    Outcome
	RedirectTo string
}

// Render is the decision to show the requested view.
func Render() Decision { return Decision{Outcome: OutcomeRender} }

// Wait is the decision to show a neutral loading state.
func Wait() Decision { return Decision{Outcome: OutcomeWait} }

// RedirectTo is the decision to navigate to path instead.
func RedirectTo(path string) Decision {
	return Decision{Outcome: OutcomeRedirect, RedirectTo: path}
}

// Requirement is the non-empty set of roles allowed to view a protected route.
type Requirement struct {
	roles map[users.Role]struct{}
}

// Require builds a Requirement. Routes are static, so an empty role list is a
// programming error and panics.
func Require(roles ...users.Role) *Requirement {
	if len(roles) == 0 {
		panic("guard: a protected route needs at least one role")
	}
	req := &Requirement{roles: make(map[users.Role]struct{}, len(roles))}
	for _, r := range roles {
		req.roles[r] = struct{}{}
	}
	return req
}

// Allows reports whether role is in the requirement.
func (r *Requirement) Allows(role users.Role) bool {
	_, ok := r.roles[role]
	return ok
}

// Paths are the fixed navigation targets.
type Paths struct {
	Login        string
	ReferralForm string
	HRDashboard  string
}

const (
	LoginPath        = "/login"
	ReferralFormPath = "/referral-form"
	HRDashboardPath  = "/dashboard"
)

// DefaultPaths returns /login, /referral-form and /dashboard.
func DefaultPaths() Paths {
	return Paths{
		Login:        LoginPath,
		ReferralForm: ReferralFormPath,
		HRDashboard:  HRDashboardPath,
	}
}

// Guard holds the path mapping used for redirects.
type Guard struct {
	paths Paths
}

// New creates a Guard. Empty paths fall back to the defaults.
func New(paths Paths) *Guard {
	def := DefaultPaths()
	if paths.Login == "" {
		paths.Login = def.Login
	}
	if paths.ReferralForm == "" {
		paths.ReferralForm = def.ReferralForm
	}
	if paths.HRDashboard == "" {
		paths.HRDashboard = def.HRDashboard
	}
	return &Guard{paths: paths}
}

// Paths returns the configured paths.
func (g *Guard) Paths() Paths {
	return g.paths
}

// DefaultPathForRole maps employee to the referral form, hr to the HR dashboard,
// and anything else to login.
func (g *Guard) DefaultPathForRole(role users.Role) string {
	switch role {
	case users.RoleEmployee:
		return g.paths.ReferralForm
	case users.RoleHR:
		return g.paths.HRDashboard
	default:
		return g.paths.Login
	}
}

// Decide returns the render-or-redirect decision for a navigation.
func (g *Guard) Decide(req *Requirement, s session.Session) Decision {
	if req == nil {
		return Render()
	}
	if s.State == session.StateUnresolved {
		return Wait()
	}
	if !s.HasAccessToken() || !s.HasRole() {
		return RedirectTo(g.paths.Login)
	}
	if req.Allows(s.Role) {
		return Render()
	}
	return RedirectTo(g.DefaultPathForRole(s.Role))
}

// CheckPublic is applied to the login route: an authenticated session holder is sent
// on to their role's home instead of seeing the login form. If that home is the login
// path itself (unknown role) the form renders, so there is no self-redirect.
func (g *Guard) CheckPublic(s session.Session) Decision {
	if !s.Authenticated() {
		return Render()
	}
	home := g.DefaultPathForRole(s.Role)
	if home == g.paths.Login {
		return Render()
	}
	return RedirectTo(home)
}
