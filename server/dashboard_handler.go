package server

import (
	"errors"
	"net/http"

	"github.com/jobmatch/go-jobmatch-server/auth"
	"github.com/jobmatch/go-jobmatch-server/profiles"
)

// DashboardHandler is the authenticated landing point. It exercises the
// authoritative gate end to end: session, user record, role-matched profile.
// Activity here also slides the session window forward.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rq := auth.FromContext(r.Context())

		user, err := rq.RequireUser(r.Context())
		if err != nil {
			if errors.Is(err, auth.ErrNoSession) {
				s.cookies.Clear(w)
				http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		s.cookies.Refresh(w, r)

		_, profile, err := rq.RequireUserWithProfile(r.Context())
		if errors.Is(err, profiles.ErrProfileNotFound) {
			// Authenticated but not onboarded yet.
			writeJSON(w, http.StatusOK, map[string]any{
				"user":        user,
				"needs_setup": true,
			})
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"user":    user,
			"profile": profile,
		})
	}
}
