// Package profiles holds the profile tagged union and the service enforcing
// the single-profile-per-user linkage invariant.
package profiles

import (
	"fmt"
	"strings"
	"time"

	"github.com/jobmatch/go-jobmatch-server/users"
)

// Kind tags the two profile shapes. It mirrors users.RoleType: a user may
// only ever create the profile kind matching their registered role.
type Kind string

const (
	KindSeeker  Kind = "seeker"
	KindCompany Kind = "company"
)

// KindForRole returns the profile kind a role is allowed to own.
func KindForRole(role users.RoleType) Kind {
	switch role {
	case users.RoleSeeker:
		return KindSeeker
	case users.RoleCompany:
		return KindCompany
	}
	return ""
}

// SeekerProfile is the job seeker's profile.
type SeekerProfile struct {
	Headline string   `json:"headline"`
	Bio      string   `json:"bio,omitempty"`
	Skills   []string `json:"skills,omitempty"`
	Location string   `json:"location,omitempty"`
}

// CompanyProfile is the hiring company's profile.
type CompanyProfile struct {
	Name     string `json:"name"`
	About    string `json:"about,omitempty"`
	Website  string `json:"website,omitempty"`
	Location string `json:"location,omitempty"`
}

// Profile is the persisted record: exactly one of Seeker or Company is set,
// matching Kind. Payloads are never handled as untyped blobs internally.
type Profile struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Kind      Kind            `json:"kind"`
	Seeker    *SeekerProfile  `json:"seeker,omitempty"`
	Company   *CompanyProfile `json:"company,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Payload is the role-typed creation payload. Kind selects which half is
// read; the other half must be nil.
type Payload struct {
	Kind    Kind            `json:"kind"`
	Seeker  *SeekerProfile  `json:"seeker,omitempty"`
	Company *CompanyProfile `json:"company,omitempty"`
}

// Validate checks the payload shape at the boundary. Validation failures are
// reported as ErrInvalidProfile so callers can distinguish them from the
// not-found and conflict outcomes.
func (p *Payload) Validate() error {
	switch p.Kind {
	case KindSeeker:
		if p.Seeker == nil || p.Company != nil {
			return fmt.Errorf("%w: seeker payload required", ErrInvalidProfile)
		}
		return p.Seeker.validate()
	case KindCompany:
		if p.Company == nil || p.Seeker != nil {
			return fmt.Errorf("%w: company payload required", ErrInvalidProfile)
		}
		return p.Company.validate()
	}
	return fmt.Errorf("%w: unknown profile kind %q", ErrInvalidProfile, p.Kind)
}

func (sp *SeekerProfile) validate() error {
	if strings.TrimSpace(sp.Headline) == "" {
		return fmt.Errorf("%w: headline is required", ErrInvalidProfile)
	}
	if len(sp.Headline) > 120 {
		return fmt.Errorf("%w: headline must be at most 120 characters", ErrInvalidProfile)
	}
	if len(sp.Bio) > 2000 {
		return fmt.Errorf("%w: bio must be at most 2000 characters", ErrInvalidProfile)
	}
	return nil
}

func (cp *CompanyProfile) validate() error {
	if strings.TrimSpace(cp.Name) == "" {
		return fmt.Errorf("%w: company name is required", ErrInvalidProfile)
	}
	if len(cp.Name) > 120 {
		return fmt.Errorf("%w: company name must be at most 120 characters", ErrInvalidProfile)
	}
	if len(cp.About) > 2000 {
		return fmt.Errorf("%w: about must be at most 2000 characters", ErrInvalidProfile)
	}
	return nil
}
