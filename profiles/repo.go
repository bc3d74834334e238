package profiles

import "context"

// Repo is the collaborator storage interface for profile records.
type Repo interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}
