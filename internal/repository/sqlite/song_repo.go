package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mk-hx/cadence/internal/domain"
	"github.com/mk-hx/cadence/internal/repository"
)

// songRepository implements repository.SongRepository for SQLite.
type songRepository struct {
	db *DB
}

// NewSongRepository creates a new SQLite song repository.
func NewSongRepository(db *DB) repository.SongRepository {
	return &songRepository{db: db}
}

// Create inserts a new song with its pre-generated id.
func (r *songRepository) Create(ctx context.Context, song *domain.Song) error {
	if err := song.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO songs (id, title, artist, genre, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		song.ID,
		song.Title,
		song.Artist,
		song.Genre,
		song.Duration,
		song.CreatedAt.Format(time.RFC3339),
	)

	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: duration must be positive", domain.ErrInvalidSong)
		}
		return fmt.Errorf("failed to create song: %w", err)
	}

	return nil
}

// GetByID retrieves a song by ID.
func (r *songRepository) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	query := `
		SELECT id, title, artist, genre, duration, created_at
		FROM songs
		WHERE id = ?
	`

	song := &domain.Song{}
	var createdAt string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&song.ID,
		&song.Title,
		&song.Artist,
		&song.Genre,
		&song.Duration,
		&createdAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to get song by ID: %w", err)
	}

	song.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return song, nil
}

// List returns all songs, newest first.
func (r *songRepository) List(ctx context.Context) ([]*domain.Song, error) {
	query := `
		SELECT id, title, artist, genre, duration, created_at
		FROM songs
		ORDER BY created_at DESC
	`

	return r.querySongs(ctx, query)
}

// ListByArtist returns songs with exactly this artist, title ascending.
func (r *songRepository) ListByArtist(ctx context.Context, artist string) ([]*domain.Song, error) {
	query := `
		SELECT id, title, artist, genre, duration, created_at
		FROM songs
		WHERE artist = ?
		ORDER BY title ASC
	`

	return r.querySongs(ctx, query, artist)
}

// ListByGenre returns songs with exactly this genre, ordered by artist
// then title.
func (r *songRepository) ListByGenre(ctx context.Context, genre string) ([]*domain.Song, error) {
	query := `
		SELECT id, title, artist, genre, duration, created_at
		FROM songs
		WHERE genre = ?
		ORDER BY artist ASC, title ASC
	`

	return r.querySongs(ctx, query, genre)
}

// Update rewrites all mutable fields of an existing song by id.
func (r *songRepository) Update(ctx context.Context, song *domain.Song) error {
	if err := song.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE songs
		SET title = ?, artist = ?, genre = ?, duration = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		song.Title,
		song.Artist,
		song.Genre,
		song.Duration,
		song.ID,
	)

	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: duration must be positive", domain.ErrInvalidSong)
		}
		return fmt.Errorf("failed to update song: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrSongNotFound
	}

	return nil
}

// Delete removes a song by ID. Junction rows referencing it cascade
// through the foreign key.
func (r *songRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM songs WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrSongNotFound
	}

	return nil
}

// Exists checks if a song with the given id exists.
func (r *songRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check song existence: %w", err)
	}
	return count > 0, nil
}

// querySongs runs a song SELECT and scans the result rows.
func (r *songRepository) querySongs(ctx context.Context, query string, args ...any) ([]*domain.Song, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*domain.Song
	for rows.Next() {
		song := &domain.Song{}
		var createdAt string

		err := rows.Scan(
			&song.ID,
			&song.Title,
			&song.Artist,
			&song.Genre,
			&song.Duration,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		song.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating songs: %w", err)
	}

	return songs, nil
}

// Ensure songRepository implements repository.SongRepository.
var _ repository.SongRepository = (*songRepository)(nil)
