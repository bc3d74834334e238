package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jobmatch/go-jobmatch-server/internal/rate"
	"github.com/jobmatch/go-jobmatch-server/users"
	"github.com/rs/zerolog/log"
)

// RegisterHandler creates the user record and issues the first session.
// Registration is where the role is fixed; it never changes afterwards.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		role := users.RoleType(r.FormValue("role"))

		if email == "" || !strings.Contains(email, "@") {
			redirectWithError(w, r, RouteRegister, "a valid email is required")
			return
		}
		if !users.ValidRole(role) {
			redirectWithError(w, r, RouteRegister, "choose an account type")
			return
		}
		if err := users.ValidatePasswordStrength(password); err != nil {
			redirectWithError(w, r, RouteRegister, err.Error())
			return
		}

		hash, err := users.HashPassword(password)
		if err != nil {
			log.Error().Err(err).Msg("hash password")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		user := &users.User{Email: email, PasswordHash: hash, Role: role}
		if err := s.repos.Users.Create(r.Context(), user); err != nil {
			if errors.Is(err, users.ErrEmailTaken) {
				redirectWithError(w, r, RouteRegister, "email already registered")
				return
			}
			log.Error().Err(err).Msg("create user")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if !s.issueSession(w, user) {
			return
		}
		http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
	}
}

// LoginHandler checks credentials and issues a fresh session. Failed
// attempts share one error message; an attacker learns nothing about which
// part was wrong.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		ip := clientIP(r)

		if s.limiter != nil {
			if err := s.limiter.CheckLogin(r.Context(), email, ip); err != nil {
				if errors.Is(err, rate.ErrRateLimited) {
					redirectWithError(w, r, RouteLogin, "too many attempts, try again later")
					return
				}
				log.Warn().Err(err).Msg("rate limiter check")
			}
		}

		user, err := s.repos.Users.GetByEmail(r.Context(), email)
		if err != nil || !users.CheckPasswordHash(password, user.PasswordHash) {
			if s.limiter != nil {
				if err := s.limiter.IncrementLogin(r.Context(), email, ip); err != nil && !errors.Is(err, rate.ErrRateLimited) {
					log.Warn().Err(err).Msg("rate limiter increment")
				}
			}
			redirectWithError(w, r, RouteLogin, "invalid email or password")
			return
		}

		if s.limiter != nil {
			if err := s.limiter.ResetLogin(r.Context(), email, ip); err != nil {
				log.Warn().Err(err).Msg("rate limiter reset")
			}
		}
		if err := s.repos.Users.SetLastLogin(r.Context(), user.ID); err != nil {
			log.Warn().Err(err).Str("user", user.ID).Msg("set last login")
		}

		if !s.issueSession(w, user) {
			return
		}
		http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
	}
}

// LogoutHandler clears the session cookie. Logging out twice is fine.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.cookies.Clear(w)
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}

func (s *Server) issueSession(w http.ResponseWriter, user *users.User) bool {
	token, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		log.Error().Err(err).Str("user", user.ID).Msg("issue session")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return false
	}
	s.cookies.Persist(w, token)
	return true
}
