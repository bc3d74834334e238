package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Public-only routes: an authenticated browser has no business here and
	// is bounced to the landing page by the edge guard.
	RouteLogin    = "/login"
	RouteRegister = "/register"

	// Auth actions
	RouteAuthLogin    = "/auth/login"
	RouteAuthRegister = "/auth/register"
	RouteAuthLogout   = "/auth/logout"

	// SSO login (enabled only when an OIDC issuer is configured)
	RouteSSOLogin    = "/auth/sso"
	RouteSSOCallback = "/auth/sso/callback"

	// Authenticated landing point
	RouteDashboard = "/dashboard"

	// Profile API
	RouteAPIProfile = "/api/profile"
)
