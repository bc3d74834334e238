package users

import (
	"fmt"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// RoleType represents the account type chosen at registration.
// A user's role is immutable after registration and determines which
// profile kind the user may create.
type RoleType string

const (
	RoleSeeker  RoleType = "seeker"  // Job seeker - owns a SeekerProfile
	RoleCompany RoleType = "company" // Hiring company - owns a CompanyProfile
)

// ValidRole reports whether r is one of the known role values.
// Anything else (including the empty string) is rejected, so a role read
// back from an untrusted token never widens the enumeration.
func ValidRole(r RoleType) bool {
	return r == RoleSeeker || r == RoleCompany
}

type User struct {
	ID           string    `json:"id,omitempty"`    // Unique identifier for the user
	Email        string    `json:"email,omitempty"` // User's email address, unique
	PasswordHash string    `json:"-"`               // Hashed password - never serialize
	Role         RoleType  `json:"role,omitempty"`  // Immutable account type
	ProfileID    string    `json:"profile_id,omitempty"`
	DateJoined   time.Time `json:"date_joined,omitempty"`
	LastLogin    time.Time `json:"last_login,omitempty"`
}

// HasProfile reports whether the user has been linked to a profile.
// ProfileID is set at most once, by the first successful profile creation,
// and is never cleared afterwards.
func (u *User) HasProfile() bool {
	return u.ProfileID != ""
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
