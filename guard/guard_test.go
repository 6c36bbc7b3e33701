package guard_test

import (
	"testing"

	"github.com/jrsteele09/referral-portal/guard"
	"github.com/jrsteele09/referral-portal/session"
	"github.com/jrsteele09/referral-portal/users"
	"github.com/stretchr/testify/require"
)

var (
	employeeOnly = guard.Require(users.RoleEmployee)
	hrOnly       = guard.Require(users.RoleHR)
	anyKnown     = guard.Require(users.RoleEmployee, users.RoleHR)
	requirements = []*guard.Requirement{employeeOnly, hrOnly, anyKnown}
	rawRoles     = []string{"", "employee", "hr", "admin"}
)

func TestDecide_PublicRouteAlwaysRenders(t *testing.T) {
	g := guard.New(guard.DefaultPaths())
	for _, s := range []session.Session{
		session.Anonymous(),
		session.FromValues("t", "", "hr"),
		{State: session.StateUnresolved},
	} {
		require.Equal(t, guard.Render(), g.Decide(nil, s))
	}
}

func TestDecide_NoAccessTokenRedirectsToLogin(t *testing.T) {
	g := guard.New(guard.DefaultPaths())
	for _, req := range requirements {
		for _, role := range rawRoles {
			s := session.FromValues("", "refresh", role)
			require.Equal(t, guard.RedirectTo("/login"), g.Decide(req, s), "role=%q", role)
		}
	}
}

func TestDecide_NoRoleRedirectsToLogin(t *testing.T) {
	g := guard.New(guard.DefaultPaths())
	for _, req := range requirements {
		require.Equal(t, guard.RedirectTo("/login"), g.Decide(req, session.FromValues("t", "r", "")))
	}
}

func TestDecide_RoleMembership(t *testing.T) {
	g := guard.New(guard.DefaultPaths())

	tests := []struct {
		name string
		req  *guard.Requirement
		role string
		want guard.Decision
	}{
		{"employee on employee route", employeeOnly, "employee", guard.Render()},
		{"hr on hr route", hrOnly, "hr", guard.Render()},
		{"employee on shared route", anyKnown, "employee", guard.Render()},
		{"hr on shared route", anyKnown, "hr", guard.Render()},
		{"employee on hr route", hrOnly, "employee", guard.RedirectTo("/referral-form")},
		{"hr on employee route", employeeOnly, "hr", guard.RedirectTo("/dashboard")},
		{"unknown role on hr route", hrOnly, "admin", guard.RedirectTo("/login")},
		{"unknown role on shared route", anyKnown, "admin", guard.RedirectTo("/login")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, g.Decide(tt.req, session.FromValues("t", "r", tt.role)))
		})
	}
}

func TestDecide_WrongRoleBounce(t *testing.T) {
	g := guard.New(guard.DefaultPaths())
	d := g.Decide(hrOnly, session.FromValues("t", "", "employee"))
	require.Equal(t, guard.OutcomeRedirect, d.Outcome)
	require.Equal(t, "/referral-form", d.RedirectTo)
	require.NotEqual(t, "/login", d.RedirectTo)
}

func TestDecide_UnresolvedWaits(t *testing.T) {
	g := guard.New(guard.DefaultPaths())
	for _, req := range requirements {
		require.Equal(t, guard.Wait(), g.Decide(req, session.Session{State: session.StateUnresolved}))
	}
}

func TestDefaultPathForRole(t *testing.T) {
	g := guard.New(guard.DefaultPaths())
	require.Equal(t, "/referral-form", g.DefaultPathForRole(users.RoleEmployee))
	require.Equal(t, "/dashboard", g.DefaultPathForRole(users.RoleHR))
	require.Equal(t, "/login", g.DefaultPathForRole(users.RoleUnknown))
	require.Equal(t, "/login", g.DefaultPathForRole(users.ParseRole("superuser")))
}

func TestNew_CustomAndDefaultPaths(t *testing.T) {
	g := guard.New(guard.Paths{HRDashboard: "/hr"})
	require.Equal(t, "/hr", g.DefaultPathForRole(users.RoleHR))
	require.Equal(t, "/referral-form", g.DefaultPathForRole(users.RoleEmployee))
	require.Equal(t, "/login", g.Paths().Login)
}

func TestCheckPublic(t *testing.T) {
	g := guard.New(guard.DefaultPaths())

	require.Equal(t, guard.Render(), g.CheckPublic(session.Anonymous()))
	require.Equal(t, guard.Render(), g.CheckPublic(session.FromValues("t", "", "")))
	require.Equal(t, guard.RedirectTo("/referral-form"), g.CheckPublic(session.FromValues("t", "", "employee")))
	require.Equal(t, guard.RedirectTo("/dashboard"), g.CheckPublic(session.FromValues("t", "", "hr")))
	require.Equal(t, guard.Render(), g.CheckPublic(session.FromValues("t", "", "admin")), "no redirect loop for unknown role")
	require.Equal(t, guard.Render(), g.CheckPublic(session.Session{State: session.StateUnresolved}))
}

func TestRequire_PanicsOnEmpty(t *testing.T) {
	require.Panics(t, func() { guard.Require() })
}

func TestOutcome_String(t *testing.T) {
	require.Equal(t, "render", guard.OutcomeRender.String())
	require.Equal(t, "redirect", guard.OutcomeRedirect.String())
	require.Equal(t, "wait", guard.OutcomeWait.String())
}
