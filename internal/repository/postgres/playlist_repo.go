package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mk-hx/cadence/internal/domain"
	"github.com/mk-hx/cadence/internal/repository"
)

// playlistRepository implements repository.PlaylistRepository for PostgreSQL.
type playlistRepository struct {
	db *DB
}

// NewPlaylistRepository creates a new PostgreSQL playlist repository.
func NewPlaylistRepository(db *DB) repository.PlaylistRepository {
	return &playlistRepository{db: db}
}

// Create inserts a new playlist with its pre-generated id. The owner
// foreign key is the last line of defense when the service-layer existence
// check was bypassed.
func (r *playlistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO playlists (id, name, owner_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		playlist.ID,
		playlist.Name,
		playlist.OwnerID,
		playlist.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewDomainError(domain.ErrUserNotFound, "playlist owner does not exist", playlist.OwnerID)
		}
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	return nil
}

// GetByID retrieves a playlist by ID.
func (r *playlistRepository) GetByID(ctx context.Context, id string) (*domain.Playlist, error) {
	query := `
		SELECT id, name, owner_id, created_at
		FROM playlists
		WHERE id = $1
	`

	playlist := &domain.Playlist{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&playlist.ID,
		&playlist.Name,
		&playlist.OwnerID,
		&playlist.CreatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to get playlist by ID: %w", err)
	}

	return playlist, nil
}

// List returns all playlists, newest first.
func (r *playlistRepository) List(ctx context.Context) ([]*domain.Playlist, error) {
	query := `
		SELECT id, name, owner_id, created_at
		FROM playlists
		ORDER BY created_at DESC
	`

	return r.queryPlaylists(ctx, query)
}

// ListByOwner returns the playlists owned by a user, newest first.
func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Playlist, error) {
	query := `
		SELECT id, name, owner_id, created_at
		FROM playlists
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	return r.queryPlaylists(ctx, query, ownerID)
}

// Update rewrites the name of an existing playlist.
func (r *playlistRepository) Update(ctx context.Context, playlist *domain.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE playlists
		SET name = $1
		WHERE id = $2
	`

	result, err := r.db.Pool.Exec(ctx, query, playlist.Name, playlist.ID)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrPlaylistNotFound
	}

	return nil
}

// Delete removes the playlist and all of its junction rows in one
// transaction. The rollback on a missing playlist row keeps the whole
// operation a no-op.
func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM playlist_songs WHERE playlist_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete playlist tracks: %w", err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete playlist: %w", err)
		}

		if result.RowsAffected() == 0 {
			return domain.ErrPlaylistNotFound
		}

		return nil
	})
}

// Exists checks if a playlist with the given id exists.
func (r *playlistRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM playlists WHERE id = $1`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check playlist existence: %w", err)
	}
	return count > 0, nil
}

// AddTrack appends a song to the playlist at max(position)+1. Reading the
// current maximum and inserting the row happen in one transaction so the
// position stays unique within the playlist. The same song may be added
// more than once; each addition gets its own row and position.
func (r *playlistRepository) AddTrack(ctx context.Context, playlistID, songID string) (*domain.PlaylistTrack, error) {
	var track *domain.PlaylistTrack

	err := r.db.WithTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var maxPosition int
		err := tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(position), 0) FROM playlist_songs WHERE playlist_id = $1`,
			playlistID,
		).Scan(&maxPosition)
		if err != nil {
			return fmt.Errorf("failed to read max position: %w", err)
		}

		track, err = domain.NewPlaylistTrack(playlistID, songID, maxPosition+1)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO playlist_songs (id, playlist_id, song_id, position, added_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			track.ID,
			track.PlaylistID,
			track.SongID,
			track.Position,
			track.AddedAt,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.NewDomainError(domain.ErrPlaylistNotFound, "playlist or song does not exist", playlistID)
			}
			return fmt.Errorf("failed to add track: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return track, nil
}

// RemoveTrack deletes every junction row associating the song with the
// playlist, including duplicate additions.
func (r *playlistRepository) RemoveTrack(ctx context.Context, playlistID, songID string) error {
	query := `DELETE FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2`

	result, err := r.db.Pool.Exec(ctx, query, playlistID, songID)
	if err != nil {
		return fmt.Errorf("failed to remove track: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrTrackNotFound
	}

	return nil
}

// GetTracks returns the playlist's songs ordered by position ascending.
// Unknown playlists yield an empty result; existence checks belong to the
// service layer.
func (r *playlistRepository) GetTracks(ctx context.Context, playlistID string) ([]*domain.Song, error) {
	query := `
		SELECT s.id, s.title, s.artist, s.genre, s.duration, s.created_at
		FROM songs s
		JOIN playlist_songs ps ON s.id = ps.song_id
		WHERE ps.playlist_id = $1
		ORDER BY ps.position ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist tracks: %w", err)
	}
	defer rows.Close()

	var songs []*domain.Song
	for rows.Next() {
		song := &domain.Song{}
		err := rows.Scan(
			&song.ID,
			&song.Title,
			&song.Artist,
			&song.Genre,
			&song.Duration,
			&song.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracks: %w", err)
	}

	return songs, nil
}

// TotalDuration returns the summed duration in seconds of all songs on the
// playlist. Zero for an empty or unknown playlist.
func (r *playlistRepository) TotalDuration(ctx context.Context, playlistID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(s.duration), 0)
		FROM playlist_songs ps
		JOIN songs s ON ps.song_id = s.id
		WHERE ps.playlist_id = $1
	`

	var total int
	if err := r.db.Pool.QueryRow(ctx, query, playlistID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to get total duration: %w", err)
	}

	return total, nil
}

// queryPlaylists runs a playlist SELECT and scans the result rows.
func (r *playlistRepository) queryPlaylists(ctx context.Context, query string, args ...any) ([]*domain.Playlist, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*domain.Playlist
	for rows.Next() {
		playlist := &domain.Playlist{}
		if err := rows.Scan(&playlist.ID, &playlist.Name, &playlist.OwnerID, &playlist.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating playlists: %w", err)
	}

	return playlists, nil
}

// Ensure playlistRepository implements repository.PlaylistRepository.
var _ repository.PlaylistRepository = (*playlistRepository)(nil)
