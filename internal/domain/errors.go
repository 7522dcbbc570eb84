// Package domain contains the core business entities for Cadence.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, configuration, etc.).

var (
	// ===========================================
	// User Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a user with the same username/email exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidUser indicates the user entity violates a structural invariant.
	ErrInvalidUser = errors.New("invalid user")

	// ===========================================
	// Song Errors
	// ===========================================

	// ErrSongNotFound indicates the requested song does not exist.
	ErrSongNotFound = errors.New("song not found")

	// ErrInvalidSong indicates the song entity violates a structural invariant
	// (empty field or non-positive duration).
	ErrInvalidSong = errors.New("invalid song")

	// ===========================================
	// Playlist Errors
	// ===========================================

	// ErrPlaylistNotFound indicates the requested playlist does not exist.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrInvalidPlaylist indicates the playlist or junction row violates a
	// structural invariant.
	ErrInvalidPlaylist = errors.New("invalid playlist")

	// ErrNotPlaylistOwner indicates the requesting user does not own the
	// playlist being mutated.
	ErrNotPlaylistOwner = errors.New("user is not the playlist owner")

	// ===========================================
	// Track Association Errors
	// ===========================================

	// ErrTrackNotFound indicates the song is not associated with the playlist.
	ErrTrackNotFound = errors.New("track not found in playlist")
)

// DomainError wraps a domain error with additional context.
type DomainError struct {
	// Err is the underlying domain error.
	Err error

	// Message provides additional context.
	Message string

	// Resource identifies the affected resource (e.g., playlist id, username).
	Resource string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Message, e.Resource)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError with context.
func NewDomainError(err error, message, resource string) *DomainError {
	return &DomainError{
		Err:      err,
		Message:  message,
		Resource: resource,
	}
}
