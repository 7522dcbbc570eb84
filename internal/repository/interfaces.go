// Package repository defines data access interfaces for Cadence.
// These interfaces abstract database operations, allowing for different
// implementations (SQLite, PostgreSQL, mocks for testing) while keeping
// the service layer clean.
package repository

import (
	"context"

	"github.com/mk-hx/cadence/internal/domain"
)

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create inserts a new user with its pre-generated id.
	// The unique constraints on username and email are authoritative here:
	// a collision surfaces as domain.ErrUserAlreadyExists. Friendly duplicate
	// pre-checks are the service layer's job.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns domain.ErrUserNotFound when no row matches.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns all users, newest first.
	List(ctx context.Context) ([]*domain.User, error)

	// Update rewrites the username and email of an existing user.
	// Returns domain.ErrUserNotFound when no row matched the id.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user by ID. Owned playlists cascade at the storage
	// layer. Returns domain.ErrUserNotFound when no row matched.
	Delete(ctx context.Context, id string) error

	// Exists checks if a user with the given id exists.
	Exists(ctx context.Context, id string) (bool, error)

	// ExistsByUsername checks if a user with the given username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// =============================================================================
// Song Repository
// =============================================================================

// SongRepository defines the interface for song data access.
type SongRepository interface {
	// Create inserts a new song with its pre-generated id.
	Create(ctx context.Context, song *domain.Song) error

	// GetByID retrieves a song by ID.
	// Returns domain.ErrSongNotFound when no row matches.
	GetByID(ctx context.Context, id string) (*domain.Song, error)

	// List returns all songs, newest first.
	List(ctx context.Context) ([]*domain.Song, error)

	// ListByArtist returns songs with exactly this artist, title ascending.
	ListByArtist(ctx context.Context, artist string) ([]*domain.Song, error)

	// ListByGenre returns songs with exactly this genre, ordered by artist
	// then title ascending.
	ListByGenre(ctx context.Context, genre string) ([]*domain.Song, error)

	// Update rewrites all mutable fields of an existing song by id.
	// Returns domain.ErrSongNotFound when no row matched; never a silent no-op.
	Update(ctx context.Context, song *domain.Song) error

	// Delete removes a song by ID. Junction rows referencing it cascade at
	// the storage layer. Returns domain.ErrSongNotFound when no row matched.
	Delete(ctx context.Context, id string) error

	// Exists checks if a song with the given id exists.
	Exists(ctx context.Context, id string) (bool, error)
}

// =============================================================================
// Playlist Repository
// =============================================================================

// PlaylistRepository defines the interface for playlist data access,
// including the track association protocol.
type PlaylistRepository interface {
	// Create inserts a new playlist with its pre-generated id.
	// Owner existence is the service layer's responsibility; the foreign key
	// constraint is the last line of defense.
	Create(ctx context.Context, playlist *domain.Playlist) error

	// GetByID retrieves a playlist by ID.
	// Returns domain.ErrPlaylistNotFound when no row matches.
	GetByID(ctx context.Context, id string) (*domain.Playlist, error)

	// List returns all playlists, newest first.
	List(ctx context.Context) ([]*domain.Playlist, error)

	// ListByOwner returns the playlists owned by a user, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Playlist, error)

	// Update rewrites the name of an existing playlist.
	// Returns domain.ErrPlaylistNotFound when no row matched.
	Update(ctx context.Context, playlist *domain.Playlist) error

	// Delete removes the playlist and all of its junction rows in one
	// transaction, so orphaned junction rows never persist. Returns
	// domain.ErrPlaylistNotFound when the playlist row did not exist.
	Delete(ctx context.Context, id string) error

	// Exists checks if a playlist with the given id exists.
	Exists(ctx context.Context, id string) (bool, error)

	// AddTrack appends a song to the playlist at max(position)+1, starting
	// at 1 for an empty playlist. The position is computed and the row
	// inserted inside one transaction. The same song may appear more than
	// once, at distinct positions.
	AddTrack(ctx context.Context, playlistID, songID string) (*domain.PlaylistTrack, error)

	// RemoveTrack deletes every junction row associating the song with the
	// playlist. Returns domain.ErrTrackNotFound when none existed.
	RemoveTrack(ctx context.Context, playlistID, songID string) error

	// GetTracks returns the playlist's songs ordered by position ascending.
	GetTracks(ctx context.Context, playlistID string) ([]*domain.Song, error)

	// TotalDuration returns the summed duration in seconds of all songs
	// currently on the playlist. Zero for an empty or unknown playlist.
	TotalDuration(ctx context.Context, playlistID string) (int, error)
}
