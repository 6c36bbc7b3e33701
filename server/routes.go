package server

import (
	"github.com/jrsteele09/referral-portal/guard"
	"github.com/jrsteele09/referral-portal/users"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	employeePages = guard.Require(users.RoleEmployee)
	hrPages       = guard.Require(users.RoleHR)
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))

	// LOGIN & LOGOUT
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare(s.LoginRateLimitMiddleware)...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware)...))

	// Employee pages
	s.RegisterRouteHandler("GET "+RouteReferralForm, ChainMiddleware(s.ReferralFormHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware, s.RequireRoles(employeePages))...))
	s.RegisterRouteHandler("POST "+RouteReferralForm, ChainMiddleware(s.ReferralSubmissionHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware, s.RequireRoles(employeePages))...))

	// HR pages
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware, s.RequireRoles(hrPages))...))
	s.RegisterRouteHandler("POST "+RouteDashboardStatus, ChainMiddleware(s.DashboardStatusHandler(), s.HTMLMiddleWare(s.NoStoreMiddleware, s.RequireRoles(hrPages))...))

	// API routes
	s.RegisterRouteHandler("GET "+RouteAPISession, ChainMiddleware(s.SessionAPIHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS "+RouteAPISession, ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))

	// Operational routes
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.RegisterRouteHandler(RouteAll, ChainMiddleware(s.NotFoundHandler(), s.HTMLMiddleWare()...))
}
