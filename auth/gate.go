// Package auth implements the authoritative per-request authorization gate.
//
// The gate is the source of truth for "who is calling": it verifies the
// session token and resolves the subject against user storage. Each request
// gets its own memo (see Request) so repeated gate calls within one request
// cost nothing extra, and nothing is shared or cached across requests.
package auth

import (
	"context"
	"sync"

	"github.com/jobmatch/go-jobmatch-server/profiles"
	"github.com/jobmatch/go-jobmatch-server/session"
	"github.com/jobmatch/go-jobmatch-server/users"
	"github.com/pkg/errors"
)

type Gate struct {
	codec    *session.Codec
	users    users.UserRepo
	profiles profiles.Repo
}

func NewGate(codec *session.Codec, userRepo users.UserRepo, profileRepo profiles.Repo) (*Gate, error) {
	if codec == nil {
		return nil, errors.New("[NewGate] codec is required")
	}
	if userRepo == nil {
		return nil, errors.New("[NewGate] user repo is required")
	}
	if profileRepo == nil {
		return nil, errors.New("[NewGate] profile repo is required")
	}
	return &Gate{codec: codec, users: userRepo, profiles: profileRepo}, nil
}

// Request is the gate's per-request memo. It is constructed fresh for each
// inbound request from the raw cookie token and discarded with the request;
// the token is verified at most once and the subject is looked up in storage
// at most once, no matter how many gate calls the handler makes.
type Request struct {
	gate  *Gate
	token string

	mu sync.Mutex

	sessionDone bool
	session     *session.Session

	userDone bool
	user     *users.User
	userErr  error

	profileDone bool
	profile     *profiles.Profile
	profileErr  error
}

// NewRequest builds the memo for one request from the raw cookie token.
func (g *Gate) NewRequest(token string) *Request {
	return &Request{gate: g, token: token}
}

// RequireSession returns the verified session identity, or ErrNoSession.
// Any ambiguity - bad token, expired, unknown role - fails closed.
func (rq *Request) RequireSession() (*session.Session, error) {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	return rq.requireSessionLocked()
}

func (rq *Request) requireSessionLocked() (*session.Session, error) {
	if !rq.sessionDone {
		rq.session = rq.gate.codec.Verify(rq.token)
		rq.sessionDone = true
	}
	if rq.session == nil {
		return nil, ErrNoSession
	}
	return rq.session, nil
}

// RequireUser resolves the session's subject against user storage. A
// valid-looking token whose subject was deleted is not a security exception;
// it collapses to the standard ErrNoSession outcome.
func (rq *Request) RequireUser(ctx context.Context) (*users.User, error) {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	return rq.requireUserLocked(ctx)
}

func (rq *Request) requireUserLocked(ctx context.Context) (*users.User, error) {
	sess, err := rq.requireSessionLocked()
	if err != nil {
		return nil, err
	}

	if !rq.userDone {
		user, lookupErr := rq.gate.users.GetByID(ctx, sess.SubjectID)
		if lookupErr != nil {
			rq.userErr = ErrNoSession
		} else {
			rq.user = user
		}
		rq.userDone = true
	}
	if rq.userErr != nil {
		return nil, rq.userErr
	}
	return rq.user, nil
}

// RequireSeeker returns the authenticated seeker and their profile. Calling
// it for a company session is a mismatch between the code path and the
// session's role and yields ErrRoleMismatch, never a silently wrong profile.
func (rq *Request) RequireSeeker(ctx context.Context) (*users.User, *profiles.SeekerProfile, error) {
	user, profile, err := rq.requireProfile(ctx, users.RoleSeeker)
	if err != nil {
		return nil, nil, err
	}
	return user, profile.Seeker, nil
}

// RequireCompany is the company-side counterpart of RequireSeeker.
func (rq *Request) RequireCompany(ctx context.Context) (*users.User, *profiles.CompanyProfile, error) {
	user, profile, err := rq.requireProfile(ctx, users.RoleCompany)
	if err != nil {
		return nil, nil, err
	}
	return user, profile.Company, nil
}

// RequireUserWithProfile resolves the user together with the profile
// relation matching the session's role. A user who has not created a
// profile yet yields profiles.ErrProfileNotFound so callers can route to
// the onboarding flow.
func (rq *Request) RequireUserWithProfile(ctx context.Context) (*users.User, *profiles.Profile, error) {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	user, err := rq.requireUserLocked(ctx)
	if err != nil {
		return nil, nil, err
	}

	if !rq.profileDone {
		if !user.HasProfile() {
			rq.profileErr = profiles.ErrProfileNotFound
		} else {
			profile, lookupErr := rq.gate.profiles.GetByID(ctx, user.ProfileID)
			if lookupErr != nil {
				rq.profileErr = lookupErr
			} else {
				rq.profile = profile
			}
		}
		rq.profileDone = true
	}
	if rq.profileErr != nil {
		return nil, nil, rq.profileErr
	}
	return user, rq.profile, nil
}

func (rq *Request) requireProfile(ctx context.Context, role users.RoleType) (*users.User, *profiles.Profile, error) {
	sess, err := rq.RequireSession()
	if err != nil {
		return nil, nil, err
	}
	if sess.Role != role {
		return nil, nil, ErrRoleMismatch
	}
	return rq.RequireUserWithProfile(ctx)
}

type contextKey struct{}

// WithRequest installs the per-request memo into the request context. Done
// once by the edge middleware; the memo never outlives the request.
func WithRequest(ctx context.Context, rq *Request) context.Context {
	return context.WithValue(ctx, contextKey{}, rq)
}

// FromContext returns the memo installed by the middleware. The nil return
// only happens on routes that skipped the middleware, and behaves as an
// anonymous request would: every gate call fails closed.
func FromContext(ctx context.Context) *Request {
	rq, _ := ctx.Value(contextKey{}).(*Request)
	if rq == nil {
		return &Request{gate: nil, token: "", sessionDone: true}
	}
	return rq
}
