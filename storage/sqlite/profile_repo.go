package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jobmatch/go-jobmatch-server/profiles"
)

var _ profiles.Repo = (*ProfileRepo)(nil)

type ProfileRepo struct {
	store *Store
}

func NewProfileRepo(store *Store) *ProfileRepo {
	return &ProfileRepo{store: store}
}

// profileData is the serialized half of the tagged union. Which field is set
// always matches the row's kind column.
type profileData struct {
	Seeker  *profiles.SeekerProfile  `json:"seeker,omitempty"`
	Company *profiles.CompanyProfile `json:"company,omitempty"`
}

func (r *ProfileRepo) Create(ctx context.Context, profile *profiles.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}

	data, err := json.Marshal(profileData{Seeker: profile.Seeker, Company: profile.Company})
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	_, err = r.store.db.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, kind, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		profile.ID, profile.UserID, string(profile.Kind), string(data), profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return profiles.ErrProfileExists
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*profiles.Profile, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*profiles.Profile, error) {
	return r.getOne(ctx, `WHERE user_id = ?`, userID)
}

func (r *ProfileRepo) getOne(ctx context.Context, where string, arg any) (*profiles.Profile, error) {
	query := `SELECT id, user_id, kind, data, created_at, updated_at FROM profiles ` + where

	profile := &profiles.Profile{}
	var kind, raw string

	err := r.store.db.QueryRowContext(ctx, query, arg).Scan(
		&profile.ID, &profile.UserID, &kind, &raw, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, profiles.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var data profileData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	profile.Kind = profiles.Kind(kind)
	profile.Seeker = data.Seeker
	profile.Company = data.Company
	return profile, nil
}

func (r *ProfileRepo) Update(ctx context.Context, profile *profiles.Profile) error {
	data, err := json.Marshal(profileData{Seeker: profile.Seeker, Company: profile.Company})
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	res, err := r.store.db.ExecContext(ctx,
		`UPDATE profiles SET data = ?, updated_at = ? WHERE id = ?`,
		string(data), profile.UpdatedAt, profile.ID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if affected == 0 {
		return profiles.ErrProfileNotFound
	}
	return nil
}
