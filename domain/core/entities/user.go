package entities

import (
	"strings"

	"github.com/google/uuid"

	"parkwise/domain/core/valueobjects"
	pkgerrors "parkwise/pkg/errors"
)

// User is an account. Emails are stored lower-cased.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	OfficeID     string
	Role         valueobjects.Role
}

// NewUser creates a user with a fresh id.
func NewUser(username, email, passwordHash, officeID string, role valueobjects.Role) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}
	if passwordHash == "" {
		return nil, pkgerrors.NewValidationError("password hash cannot be empty")
	}
	if _, err := valueobjects.ParseRole(string(role)); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	return &User{
		ID:           uuid.New().String(),
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		Email:        email,
		OfficeID:     officeID,
		Role:         role,
	}, nil
}

// IsAdmin reports whether the user may provision buildings.
func (u User) IsAdmin() bool {
	return u.Role == valueobjects.RoleAdmin
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
