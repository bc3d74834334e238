package profiles

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jobmatch/go-jobmatch-server/users"
	"github.com/pkg/errors"
)

// Service enforces the profile linkage invariant at the boundary between the
// authorization layer and profile storage: a user acquires at most one
// profile, its kind must match the user's role, and the linkage is never
// reassigned. Per user the progression is monotonic - no profile, then one
// profile, never back.
type Service struct {
	users    users.UserRepo
	profiles Repo
	nowTime  func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(userRepo users.UserRepo, profileRepo Repo, options ...ServiceOption) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[NewService] user repo is required")
	}
	if profileRepo == nil {
		return nil, errors.New("[NewService] profile repo is required")
	}

	service := &Service{
		users:    userRepo,
		profiles: profileRepo,
		nowTime:  time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Create creates the user's one profile and links it to the user record.
// A second creation attempt fails with ErrProfileExists and leaves the
// existing profile untouched. A payload kind that does not match the user's
// role fails with ErrRoleMismatch before anything is written.
func (s *Service) Create(ctx context.Context, userID string, payload *Payload) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("[Service Create] user lookup: %w", err)
	}

	if user.HasProfile() {
		return nil, ErrProfileExists
	}
	if payload.Kind != KindForRole(user.Role) {
		return nil, ErrRoleMismatch
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	now := s.nowTime()
	profile := &Profile{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Kind:      payload.Kind,
		Seeker:    payload.Seeker,
		Company:   payload.Company,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("[Service Create] profile create: %w", err)
	}

	// The user-side link is a compare-and-set: a concurrent first creation
	// loses here and surfaces as a conflict rather than a silent overwrite.
	if err := s.users.SetProfileID(ctx, user.ID, profile.ID); err != nil {
		if errors.Is(err, users.ErrProfileLinked) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("[Service Create] profile link: %w", err)
	}

	return profile, nil
}

// Update replaces the payload of the user's existing profile. Updating
// before any profile exists fails with ErrProfileNotFound; the profile's
// identity and linkage never change.
func (s *Service) Update(ctx context.Context, userID string, payload *Payload) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("[Service Update] user lookup: %w", err)
	}

	if !user.HasProfile() {
		return nil, ErrProfileNotFound
	}
	if payload.Kind != KindForRole(user.Role) {
		return nil, ErrRoleMismatch
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByID(ctx, user.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("[Service Update] profile lookup: %w", err)
	}

	profile.Seeker = payload.Seeker
	profile.Company = payload.Company
	profile.UpdatedAt = s.nowTime()

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("[Service Update] profile update: %w", err)
	}

	return profile, nil
}

// Get returns the user's profile, or ErrProfileNotFound when none is linked.
func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("[Service Get] user lookup: %w", err)
	}
	if !user.HasProfile() {
		return nil, ErrProfileNotFound
	}

	profile, err := s.profiles.GetByID(ctx, user.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("[Service Get] profile lookup: %w", err)
	}
	return profile, nil
}
