// Package domain contains the core business entities for Cadence.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Song represents a single track in the catalog.
// Fields are conceptually immutable once persisted: an update constructs
// a replacement entity carrying the same id (see Replace).
type Song struct {
	// ID is the unique identifier for the song, generated at construction.
	ID string `json:"id"`

	// Title is the track title. Constraints: non-empty, at most 200 characters.
	Title string `json:"title"`

	// Artist is the performing artist. Never empty.
	Artist string `json:"artist"`

	// Genre classifies the track. Never empty.
	Genre string `json:"genre"`

	// Duration is the track length in whole seconds. Always > 0.
	Duration int `json:"duration"`

	// CreatedAt is the timestamp when the song was added to the catalog.
	CreatedAt time.Time `json:"created_at"`
}

// NewSong creates a Song with a fresh id and creation timestamp.
// Non-positive durations and empty fields are rejected here, before any
// persistence attempt.
func NewSong(title, artist, genre string, duration int) (*Song, error) {
	s := &Song{
		ID:        uuid.NewString(),
		Title:     title,
		Artist:    artist,
		Genre:     genre,
		Duration:  duration,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Replace returns a new Song carrying this song's id and creation time
// with the remaining fields replaced.
func (s *Song) Replace(title, artist, genre string, duration int) (*Song, error) {
	next := &Song{
		ID:        s.ID,
		Title:     title,
		Artist:    artist,
		Genre:     genre,
		Duration:  duration,
		CreatedAt: s.CreatedAt,
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}

// Validate checks the structural invariants of the entity.
func (s *Song) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidSong)
	}
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidSong)
	}
	if strings.TrimSpace(s.Artist) == "" {
		return fmt.Errorf("%w: artist is required", ErrInvalidSong)
	}
	if strings.TrimSpace(s.Genre) == "" {
		return fmt.Errorf("%w: genre is required", ErrInvalidSong)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidSong, s.Duration)
	}
	return nil
}
