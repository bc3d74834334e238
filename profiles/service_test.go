package profiles_test

import (
	"context"
	"testing"

	"github.com/jobmatch/go-jobmatch-server/profiles"
	fakeprofilerepo "github.com/jobmatch/go-jobmatch-server/profiles/repofake"
	"github.com/jobmatch/go-jobmatch-server/users"
	fakeuserrepo "github.com/jobmatch/go-jobmatch-server/users/repofake"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	userRepo    *fakeuserrepo.FakeUserRepo
	profileRepo *fakeprofilerepo.FakeProfileRepo
	service     *profiles.Service
}

func setupServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	ur := fakeuserrepo.NewFakeUserRepo()
	pr := fakeprofilerepo.NewFakeProfileRepo()
	service, err := profiles.NewService(ur, pr)
	require.NoError(t, err)

	return &serviceFixture{userRepo: ur, profileRepo: pr, service: service}
}

func (f *serviceFixture) addUser(t *testing.T, id string, role users.RoleType) *users.User {
	t.Helper()
	user := &users.User{ID: id, Email: id + "@example.com", Role: role}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user
}

func seekerPayload(headline string) *profiles.Payload {
	return &profiles.Payload{
		Kind:   profiles.KindSeeker,
		Seeker: &profiles.SeekerProfile{Headline: headline, Skills: []string{"go"}},
	}
}

func companyPayload(name string) *profiles.Payload {
	return &profiles.Payload{
		Kind:    profiles.KindCompany,
		Company: &profiles.CompanyProfile{Name: name},
	}
}

func TestCreateLinksProfileOnce(t *testing.T) {
	f := setupServiceFixture(t)
	f.addUser(t, "u1", users.RoleSeeker)
	ctx := context.Background()

	profile, err := f.service.Create(ctx, "u1", seekerPayload("Backend developer"))
	require.NoError(t, err)
	require.NotEmpty(t, profile.ID)
	require.Equal(t, profiles.KindSeeker, profile.Kind)

	user, err := f.userRepo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, profile.ID, user.ProfileID)
}

func TestCreateSecondProfileConflicts(t *testing.T) {
	f := setupServiceFixture(t)
	f.addUser(t, "u1", users.RoleSeeker)
	ctx := context.Background()

	first, err := f.service.Create(ctx, "u1", seekerPayload("Backend developer"))
	require.NoError(t, err)

	_, err = f.service.Create(ctx, "u1", seekerPayload("Frontend developer"))
	require.ErrorIs(t, err, profiles.ErrProfileExists)

	// The existing profile and linkage are unchanged after the conflict.
	user, err := f.userRepo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, first.ID, user.ProfileID)

	stored, err := f.profileRepo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "Backend developer", stored.Seeker.Headline)
}

func TestCreateRejectsRoleMismatch(t *testing.T) {
	f := setupServiceFixture(t)
	f.addUser(t, "u1", users.RoleSeeker)
	ctx := context.Background()

	_, err := f.service.Create(ctx, "u1", companyPayload("Acme"))
	require.ErrorIs(t, err, profiles.ErrRoleMismatch)

	// No profile was created and the user is still unlinked.
	user, err := f.userRepo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.False(t, user.HasProfile())
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	f := setupServiceFixture(t)
	f.addUser(t, "u1", users.RoleSeeker)
	ctx := context.Background()

	_, err := f.service.Create(ctx, "u1", seekerPayload(""))
	require.ErrorIs(t, err, profiles.ErrInvalidProfile)

	// Mixed payloads are rejected at the boundary.
	mixed := seekerPayload("Backend developer")
	mixed.Company = &profiles.CompanyProfile{Name: "Acme"}
	_, err = f.service.Create(ctx, "u1", mixed)
	require.ErrorIs(t, err, profiles.ErrInvalidProfile)
}

func TestUpdateRequiresExistingLinkage(t *testing.T) {
	f := setupServiceFixture(t)
	f.addUser(t, "u1", users.RoleCompany)
	ctx := context.Background()

	_, err := f.service.Update(ctx, "u1", companyPayload("Acme"))
	require.ErrorIs(t, err, profiles.ErrProfileNotFound)
}

func TestUpdateKeepsIdentity(t *testing.T) {
	f := setupServiceFixture(t)
	f.addUser(t, "u1", users.RoleSeeker)
	ctx := context.Background()

	created, err := f.service.Create(ctx, "u1", seekerPayload("Backend developer"))
	require.NoError(t, err)

	updated, err := f.service.Update(ctx, "u1", seekerPayload("Staff engineer"))
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Staff engineer", updated.Seeker.Headline)

	user, err := f.userRepo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ProfileID)
}

func TestUpdateDistinguishesValidationFromMissing(t *testing.T) {
	f := setupServiceFixture(t)
	f.addUser(t, "u1", users.RoleSeeker)
	ctx := context.Background()

	_, err := f.service.Create(ctx, "u1", seekerPayload("Backend developer"))
	require.NoError(t, err)

	_, err = f.service.Update(ctx, "u1", seekerPayload(""))
	require.ErrorIs(t, err, profiles.ErrInvalidProfile)
	require.NotErrorIs(t, err, profiles.ErrProfileNotFound)
}

func TestGetReturnsLinkedProfile(t *testing.T) {
	f := setupServiceFixture(t)
	f.addUser(t, "u1", users.RoleCompany)
	ctx := context.Background()

	_, err := f.service.Get(ctx, "u1")
	require.ErrorIs(t, err, profiles.ErrProfileNotFound)

	created, err := f.service.Create(ctx, "u1", companyPayload("Acme"))
	require.NoError(t, err)

	got, err := f.service.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, "Acme", got.Company.Name)
}
