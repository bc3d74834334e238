package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jobmatch/go-jobmatch-server/auth"
	"github.com/jobmatch/go-jobmatch-server/profiles"
	"github.com/rs/zerolog/log"
)

// requireAPIUser is the authoritative gate for JSON routes. Unlike the page
// flow it answers 401 instead of redirecting, but the policy is the same:
// every verification problem is indistinguishable from "not logged in".
func (s *Server) requireAPIUser(w http.ResponseWriter, r *http.Request) (userID string, ok bool) {
	user, err := auth.FromContext(r.Context()).RequireUser(r.Context())
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return "", false
		}
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return "", false
	}
	return user.ID, true
}

// CreateProfileHandler creates the caller's one profile. The error mapping
// mirrors the service taxonomy: conflict for a second creation, forbidden
// for a kind that does not match the registered role, unprocessable for a
// payload that fails validation.
func (s *Server) CreateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.requireAPIUser(w, r)
		if !ok {
			return
		}

		payload, ok := decodePayload(w, r)
		if !ok {
			return
		}

		profile, err := s.profiles.Create(r.Context(), userID, payload)
		if err != nil {
			s.writeProfileError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, profile)
	}
}

// UpdateProfileHandler replaces the caller's profile content. A missing
// profile is reported as not-found so clients route the user to creation
// instead of a validation retry.
func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.requireAPIUser(w, r)
		if !ok {
			return
		}

		payload, ok := decodePayload(w, r)
		if !ok {
			return
		}

		profile, err := s.profiles.Update(r.Context(), userID, payload)
		if err != nil {
			s.writeProfileError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}

// GetProfileHandler returns the caller's profile.
func (s *Server) GetProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.requireAPIUser(w, r)
		if !ok {
			return
		}

		profile, err := s.profiles.Get(r.Context(), userID)
		if err != nil {
			s.writeProfileError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}

func decodePayload(w http.ResponseWriter, r *http.Request) (*profiles.Payload, bool) {
	var payload profiles.Payload
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed payload")
		return nil, false
	}
	return &payload, true
}

func (s *Server) writeProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profiles.ErrProfileExists):
		writeJSONError(w, http.StatusConflict, "profile already exists")
	case errors.Is(err, profiles.ErrRoleMismatch):
		writeJSONError(w, http.StatusForbidden, "profile kind does not match account type")
	case errors.Is(err, profiles.ErrProfileNotFound):
		writeJSONError(w, http.StatusNotFound, "no profile yet")
	case errors.Is(err, profiles.ErrInvalidProfile):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Error().Err(err).Msg("profile operation")
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}
