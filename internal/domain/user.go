// Package domain contains the core business entities for Cadence.
// These are pure Go structs with no storage dependencies, representing
// the fundamental concepts of the playlist manager.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered account that can own playlists.
type User struct {
	// ID is the unique identifier for the user, generated at construction.
	ID string `json:"id"`

	// Username is the unique display name.
	// Constraints: 3-30 characters, letters/digits/underscore/hyphen.
	Username string `json:"username"`

	// Email is the unique contact address, stored lowercased.
	Email string `json:"email"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewUser creates a User with a fresh id and creation timestamp.
// Length bounds, email shape and normalization are service-layer policy;
// the factory only rejects structurally invalid input.
func NewUser(username, email string) (*User, error) {
	u := &User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the structural invariants of the entity.
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidUser)
	}
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidUser)
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidUser)
	}
	return nil
}
