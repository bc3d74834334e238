package server

import "net/http"

func (s *Server) initRoutes() {
	// Public-only pages: an authenticated browser is bounced to the
	// dashboard before the page handler runs.
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.PageMiddleware(s.GuardPublicOnly)...))
	s.RegisterRouteHandler("GET "+RouteRegister, ChainMiddleware(s.RegisterPageHandler(), s.PageMiddleware(s.GuardPublicOnly)...))

	// Auth actions
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.PageMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.PageMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.PageMiddleware()...))

	// SSO login
	s.RegisterRouteHandler("GET "+RouteSSOLogin, ChainMiddleware(s.SSOLoginHandler(), s.PageMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSSOCallback, ChainMiddleware(s.SSOCallbackHandler(), s.PageMiddleware()...))

	// Protected pages: the edge guard bounces anonymous browsers cheaply,
	// the handler itself still consults the authoritative gate.
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.PageMiddleware(s.GuardProtected)...))

	// Profile API
	s.RegisterRouteHandler("GET "+RouteAPIProfile, ChainMiddleware(s.GetProfileHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPIProfile, ChainMiddleware(s.CreateProfileHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("PUT "+RouteAPIProfile, ChainMiddleware(s.UpdateProfileHandler(), s.APIMiddleware()...))
}

// LoginPageHandler and RegisterPageHandler exist as edge guard targets; the
// HTML itself is rendered by the separate frontend.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"page": "login"})
	}
}

func (s *Server) RegisterPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"page": "register"})
	}
}
