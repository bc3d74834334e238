package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jobmatch/go-jobmatch-server/internal/config"
	"github.com/jobmatch/go-jobmatch-server/users"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	ssoStateCookie = "sso_state"
	ssoNonceCookie = "sso_nonce"
)

// ssoProvider bundles the OIDC discovery result with the OAuth2 client
// configuration for the external identity provider.
type ssoProvider struct {
	provider *oidc.Provider
	oauth2   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

func newSSOProvider(cfg config.SSOConfig) (*ssoProvider, error) {
	provider, err := oidc.NewProvider(context.Background(), cfg.GetSSOIssuer())
	if err != nil {
		return nil, err
	}

	clientID := cfg.GetSSOClientID()
	return &ssoProvider{
		provider: provider,
		oauth2: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: cfg.GetSSOClientSecret(),
			Endpoint:     provider.Endpoint(),
			RedirectURL:  cfg.GetSSORedirectURL(),
			Scopes:       []string{oidc.ScopeOpenID, "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// SSOLoginHandler starts the OIDC flow. State and nonce live in short-lived
// cookies just long enough for the round trip to the provider.
func (s *Server) SSOLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.sso == nil {
			http.Error(w, "sso login is not configured", http.StatusNotFound)
			return
		}

		state := generateRandomString(32)
		nonce := generateRandomString(32)
		for name, value := range map[string]string{ssoStateCookie: state, ssoNonceCookie: nonce} {
			http.SetCookie(w, &http.Cookie{
				Name:     name,
				Value:    value,
				Path:     "/",
				MaxAge:   300,
				HttpOnly: true,
				Secure:   s.env == "PROD",
				SameSite: http.SameSiteLaxMode,
			})
		}

		http.Redirect(w, r, s.sso.oauth2.AuthCodeURL(state, oidc.Nonce(nonce)), http.StatusSeeOther)
	}
}

// SSOCallbackHandler finishes the OIDC flow: exchange the code, verify the
// ID token, map the asserted email to a registered local user, and issue our
// own session cookie. SSO never creates accounts - an unknown email is sent
// to registration.
func (s *Server) SSOCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.sso == nil {
			http.Error(w, "sso login is not configured", http.StatusNotFound)
			return
		}

		if errParam := r.FormValue("error"); errParam != "" {
			redirectWithError(w, r, RouteLogin, "sso login failed")
			return
		}

		stateCookie, err := r.Cookie(ssoStateCookie)
		if err != nil || stateCookie.Value == "" || r.FormValue("state") != stateCookie.Value {
			redirectWithError(w, r, RouteLogin, "sso login failed")
			return
		}
		clearSSOCookies(w)

		oauth2Token, err := s.sso.oauth2.Exchange(r.Context(), r.FormValue("code"))
		if err != nil {
			log.Warn().Err(err).Msg("sso code exchange")
			redirectWithError(w, r, RouteLogin, "sso login failed")
			return
		}

		rawIDToken, ok := oauth2Token.Extra("id_token").(string)
		if !ok {
			redirectWithError(w, r, RouteLogin, "sso login failed")
			return
		}

		idToken, err := s.sso.verifier.Verify(r.Context(), rawIDToken)
		if err != nil {
			log.Warn().Err(err).Msg("sso id token verification")
			redirectWithError(w, r, RouteLogin, "sso login failed")
			return
		}

		var claims struct {
			Nonce string `json:"nonce"`
			Email string `json:"email"`
		}
		if err := idToken.Claims(&claims); err != nil || claims.Email == "" {
			redirectWithError(w, r, RouteLogin, "sso login failed")
			return
		}
		if nonceCookie, err := r.Cookie(ssoNonceCookie); err != nil || claims.Nonce != nonceCookie.Value {
			redirectWithError(w, r, RouteLogin, "sso login failed")
			return
		}

		user, err := s.repos.Users.GetByEmail(r.Context(), claims.Email)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				redirectWithError(w, r, RouteRegister, "no account for this email, register first")
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
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

func clearSSOCookies(w http.ResponseWriter) {
	for _, name := range []string{ssoStateCookie, ssoNonceCookie} {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}
}
