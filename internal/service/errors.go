// Package service provides business logic services for Cadence.
package service

import "errors"

// Common service errors.
var (
	// User validation errors
	ErrInvalidUsername = errors.New("invalid username: must be 3-30 characters of letters, digits, '_' or '-'")
	ErrInvalidEmail    = errors.New("invalid email format")

	// Song validation errors
	ErrInvalidTitle    = errors.New("invalid title: must be 1-200 characters")
	ErrInvalidArtist   = errors.New("invalid artist: must not be empty")
	ErrInvalidGenre    = errors.New("invalid genre: must not be empty")
	ErrInvalidDuration = errors.New("invalid duration: must be between 1 and 36000 seconds")

	// Playlist validation errors
	ErrInvalidPlaylistName = errors.New("invalid playlist name: must be 1-100 characters")

	// General errors
	ErrInternalError = errors.New("internal server error")
)
