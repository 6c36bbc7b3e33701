package server

import "github.com/jrsteele09/referral-portal/guard"

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/{$}"
	RouteAll   = "/"

	// Auth Routes - Login & Logout
	RouteLogin      = guard.LoginPath
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"

	// Employee Routes
	RouteReferralForm = guard.ReferralFormPath

	// HR Routes
	RouteDashboard       = guard.HRDashboardPath
	RouteDashboardStatus = "/dashboard/status"

	// API Routes
	RouteAPISession = "/api/session"

	// Operational Routes
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
