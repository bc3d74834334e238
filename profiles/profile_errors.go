package profiles

import "errors"

var (
	// ErrProfileExists signals a second creation attempt for a user whose
	// profile is already linked. Recoverable: the caller should switch to
	// the update flow.
	ErrProfileExists = errors.New("profile already exists")

	// ErrProfileNotFound signals an update before any profile was created.
	// Distinct from validation failure so callers can route the user to the
	// creation flow instead of a retry.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrRoleMismatch signals a payload whose kind does not match the user's
	// registered role. An authorization failure, not a not-found.
	ErrRoleMismatch = errors.New("profile kind does not match user role")

	// ErrInvalidProfile signals a payload that failed shape validation.
	ErrInvalidProfile = errors.New("invalid profile")
)
