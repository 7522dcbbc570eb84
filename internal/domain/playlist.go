// Package domain contains the core business entities for Cadence.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Playlist represents a named, ordered collection of songs owned by a user.
// The persisted song association lives in the playlist_songs junction table;
// Tracks is only a transient, load-on-demand view.
type Playlist struct {
	// ID is the unique identifier for the playlist, generated at construction.
	ID string `json:"id"`

	// Name is the display name. Constraints: non-empty, at most 100 characters.
	Name string `json:"name"`

	// OwnerID references the owning user. Deleting the user deletes the playlist.
	OwnerID string `json:"owner_id"`

	// CreatedAt is the timestamp when the playlist was created.
	CreatedAt time.Time `json:"created_at"`

	// Tracks holds the playlist's songs in position order when loaded.
	// Not persisted as a column.
	Tracks []*Song `json:"tracks,omitempty"`
}

// NewPlaylist creates a Playlist with a fresh id and creation timestamp.
// Owner existence is checked by the service layer; the storage foreign key
// is the last line of defense.
func NewPlaylist(name, ownerID string) (*Playlist, error) {
	p := &Playlist{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the structural invariants of the entity.
func (p *Playlist) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPlaylist)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPlaylist)
	}
	if strings.TrimSpace(p.OwnerID) == "" {
		return fmt.Errorf("%w: owner id is required", ErrInvalidPlaylist)
	}
	return nil
}

// PlaylistTrack is a junction row associating one song with one playlist
// at a fixed position. Positions are unique within a playlist and assigned
// as max(position)+1 on insert, so track order is append order.
type PlaylistTrack struct {
	// ID is the synthetic identifier of the junction row.
	ID string `json:"id"`

	// PlaylistID references the playlist. Cascades on playlist delete.
	PlaylistID string `json:"playlist_id"`

	// SongID references the song. Cascades on song delete.
	SongID string `json:"song_id"`

	// Position is the 1-based slot of the song within the playlist.
	Position int `json:"position"`

	// AddedAt is the timestamp when the association was created.
	AddedAt time.Time `json:"added_at"`
}

// NewPlaylistTrack creates a junction row at the given position.
// The position is computed by the playlist repository inside the same
// transaction as the insert.
func NewPlaylistTrack(playlistID, songID string, position int) (*PlaylistTrack, error) {
	t := &PlaylistTrack{
		ID:         uuid.NewString(),
		PlaylistID: playlistID,
		SongID:     songID,
		Position:   position,
		AddedAt:    time.Now().UTC(),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the structural invariants of the junction row.
func (t *PlaylistTrack) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPlaylist)
	}
	if t.PlaylistID == "" {
		return fmt.Errorf("%w: playlist id is required", ErrInvalidPlaylist)
	}
	if t.SongID == "" {
		return fmt.Errorf("%w: song id is required", ErrInvalidPlaylist)
	}
	if t.Position < 1 {
		return fmt.Errorf("%w: position must be >= 1, got %d", ErrInvalidPlaylist, t.Position)
	}
	return nil
}
