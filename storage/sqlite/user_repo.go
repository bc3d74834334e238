package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jobmatch/go-jobmatch-server/users"
)

var _ users.UserRepo = (*UserRepo)(nil)

type UserRepo struct {
	store *Store
}

func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Create(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now()
	}

	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, date_joined) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, string(user.Role), user.DateJoined,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return users.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.getOne(ctx, `WHERE lower(email) = lower(?)`, email)
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg any) (*users.User, error) {
	query := `SELECT id, email, password_hash, role, profile_id, date_joined, last_login FROM users ` + where

	user := &users.User{}
	var profileID sql.NullString
	var lastLogin sql.NullTime
	var role string

	err := r.store.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &role, &profileID, &user.DateJoined, &lastLogin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.Role = users.RoleType(role)
	user.ProfileID = profileID.String
	if lastLogin.Valid {
		user.LastLogin = lastLogin.Time
	}
	return user, nil
}

// SetProfileID links a profile to the user exactly once. The guarded UPDATE
// keeps the linkage write atomic: a user whose profile_id is already set is
// never overwritten, concurrent callers included.
func (r *UserRepo) SetProfileID(ctx context.Context, userID, profileID string) error {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE users SET profile_id = ? WHERE id = ? AND profile_id IS NULL`,
		profileID, userID,
	)
	if err != nil {
		return fmt.Errorf("link profile: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("link profile: %w", err)
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, userID); err != nil {
			return err
		}
		return users.ErrProfileLinked
	}
	return nil
}

func (r *UserRepo) SetLastLogin(ctx context.Context, userID string) error {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("set last login: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set last login: %w", err)
	}
	if affected == 0 {
		return users.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
