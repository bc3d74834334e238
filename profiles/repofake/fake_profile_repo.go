package fakeprofilerepo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jobmatch/go-jobmatch-server/profiles"
)

var _ profiles.Repo = (*FakeProfileRepo)(nil)

type FakeProfileRepo struct {
	byID     map[string]*profiles.Profile
	byUserID map[string]string // user id to profile id
	lock     sync.RWMutex
}

func NewFakeProfileRepo() *FakeProfileRepo {
	return &FakeProfileRepo{
		byID:     make(map[string]*profiles.Profile),
		byUserID: make(map[string]string),
	}
}

func (pr *FakeProfileRepo) Create(_ context.Context, profile *profiles.Profile) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if _, ok := pr.byUserID[profile.UserID]; ok {
		return profiles.ErrProfileExists
	}
	pr.byID[profile.ID] = copyProfile(profile)
	pr.byUserID[profile.UserID] = profile.ID
	return nil
}

func (pr *FakeProfileRepo) GetByID(_ context.Context, id string) (*profiles.Profile, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	profile, ok := pr.byID[id]
	if !ok {
		return nil, profiles.ErrProfileNotFound
	}
	return copyProfile(profile), nil
}

func (pr *FakeProfileRepo) GetByUserID(_ context.Context, userID string) (*profiles.Profile, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	id, ok := pr.byUserID[userID]
	if !ok {
		return nil, profiles.ErrProfileNotFound
	}
	return copyProfile(pr.byID[id]), nil
}

func (pr *FakeProfileRepo) Update(_ context.Context, profile *profiles.Profile) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if _, ok := pr.byID[profile.ID]; !ok {
		return profiles.ErrProfileNotFound
	}
	pr.byID[profile.ID] = copyProfile(profile)
	return nil
}

func copyProfile(p *profiles.Profile) *profiles.Profile {
	c := *p
	if p.Seeker != nil {
		seeker := *p.Seeker
		c.Seeker = &seeker
	}
	if p.Company != nil {
		company := *p.Company
		c.Company = &company
	}
	return &c
}
