package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrProfileLinked = errors.New("user already linked to a profile")
)

// UserRepo is the collaborator storage interface for user records.
// SetProfileID must be a compare-and-set: it links the profile only when no
// profile has ever been linked, and returns ErrProfileLinked otherwise. The
// linkage is never cleared or reassigned.
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	SetProfileID(ctx context.Context, userID, profileID string) error
	SetLastLogin(ctx context.Context, userID string) error
}
