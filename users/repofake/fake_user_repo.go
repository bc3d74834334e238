package fakeuserrepo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jobmatch/go-jobmatch-server/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[string]*users.User
	emailIds map[string]string // email to user id
	lock     sync.RWMutex

	// GetByIDCalls counts lookups so tests can assert on gate memoization.
	GetByIDCalls int
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[string]*users.User),
		emailIds: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := ur.emailIds[email]; ok {
		return users.ErrEmailTaken
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now()
	}
	ur.users[user.ID] = copyUser(user)
	ur.emailIds[email] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	ur.GetByIDCalls++
	user, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return copyUser(user), nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[strings.ToLower(email)]
	if !ok {
		return nil, users.ErrNotFound
	}
	user, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return copyUser(user), nil
}

func (ur *FakeUserRepo) SetProfileID(_ context.Context, userID, profileID string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[userID]
	if !ok {
		return users.ErrNotFound
	}
	if user.ProfileID != "" {
		return users.ErrProfileLinked
	}
	user.ProfileID = profileID
	return nil
}

func (ur *FakeUserRepo) SetLastLogin(_ context.Context, userID string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[userID]
	if !ok {
		return users.ErrNotFound
	}
	user.LastLogin = time.Now()
	return nil
}

// Delete removes a user, simulating account deletion behind a still-valid
// token.
func (ur *FakeUserRepo) Delete(userID string) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[userID]
	if !ok {
		return
	}
	delete(ur.emailIds, strings.ToLower(user.Email))
	delete(ur.users, userID)
}

func copyUser(u *users.User) *users.User {
	c := *u
	return &c
}
