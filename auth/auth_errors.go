package auth

import "errors"

var (
	// ErrNoSession is the single fail-closed outcome for every verification
	// problem: absent, malformed, expired or tampered token, and a valid
	// token whose subject no longer exists. Callers redirect to login.
	ErrNoSession = errors.New("no session")

	// ErrRoleMismatch signals an authenticated caller requesting the profile
	// relation of the other role. The caller is authenticated, so this is
	// distinct from ErrNoSession.
	ErrRoleMismatch = errors.New("session role does not match requested profile kind")
)
