package server

import (
	"net/http"

	"github.com/jobmatch/go-jobmatch-server/auth"
)

// WithGateRequest installs the authorization gate's per-request memo into
// the request context. It runs on every route, costs nothing until a gate
// method is called, and guarantees the token is verified at most once and
// the subject looked up at most once per request.
func (s *Server) WithGateRequest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rq := s.gate.NewRequest(s.cookies.Read(r))
		next(w, r.WithContext(auth.WithRequest(r.Context(), rq)))
	}
}

// GuardProtected is the optimistic edge check for protected pages: it
// inspects only the cookie bytes - no storage round trip - and bounces an
// obviously unauthenticated browser to the login page before any expensive
// work. It is never the source of truth; every protected handler still asks
// the authoritative gate.
func (s *Server) GuardProtected(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.FromContext(r.Context()).RequireSession(); err != nil {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// GuardPublicOnly bounces an already-authenticated browser away from the
// login and registration pages to the authenticated landing point.
func (s *Server) GuardPublicOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.FromContext(r.Context()).RequireSession(); err == nil {
			http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
