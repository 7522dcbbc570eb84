package postgres

import (
	"context"
	"fmt"

	"github.com/mk-hx/cadence/internal/domain"
	"github.com/mk-hx/cadence/internal/repository"
)

// songRepository implements repository.SongRepository for PostgreSQL.
type songRepository struct {
	db *DB
}

// NewSongRepository creates a new PostgreSQL song repository.
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
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		song.ID,
		song.Title,
		song.Artist,
		song.Genre,
		song.Duration,
		song.CreatedAt,
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
		WHERE id = $1
	`

	song := &domain.Song{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&song.ID,
		&song.Title,
		&song.Artist,
		&song.Genre,
		&song.Duration,
		&song.CreatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to get song by ID: %w", err)
	}

	return song, nil
}

// List returns all songs, newest first.
func (r *songRepository) List(ctx context.Context) ([]*domain.Song, error) {
	query := `
		SELECT id, title, artist, genre, duration, created_at
		FROM songs
		ORDER BY created_at DESC
	`

	return r.querySongs(ctx, r.db.Pool, query)
}

// ListByArtist returns the artist's songs ordered by title.
func (r *songRepository) ListByArtist(ctx context.Context, artist string) ([]*domain.Song, error) {
	query := `
		SELECT id, title, artist, genre, duration, created_at
		FROM songs
		WHERE artist = $1
		ORDER BY title ASC
	`

	return r.querySongs(ctx, r.db.Pool, query, artist)
}

// ListByGenre returns the genre's songs ordered by artist, then title.
func (r *songRepository) ListByGenre(ctx context.Context, genre string) ([]*domain.Song, error) {
	query := `
		SELECT id, title, artist, genre, duration, created_at
		FROM songs
		WHERE genre = $1
		ORDER BY artist ASC, title ASC
	`

	return r.querySongs(ctx, r.db.Pool, query, genre)
}

// Update replaces every mutable field of an existing song.
func (r *songRepository) Update(ctx context.Context, song *domain.Song) error {
	if err := song.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE songs
		SET title = $1, artist = $2, genre = $3, duration = $4
		WHERE id = $5
	`

	result, err := r.db.Pool.Exec(ctx, query,
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

	if result.RowsAffected() == 0 {
		return domain.ErrSongNotFound
	}

	return nil
}

// Delete removes a song. Junction rows referencing it go with it via the
// cascading foreign key.
func (r *songRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrSongNotFound
	}

	return nil
}

// Exists checks if a song with the given id exists.
func (r *songRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM songs WHERE id = $1`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check song existence: %w", err)
	}
	return count > 0, nil
}

// querySongs runs a song SELECT against the pool or a transaction and
// scans the result rows.
func (r *songRepository) querySongs(ctx context.Context, q Querier, query string, args ...any) ([]*domain.Song, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
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
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating songs: %w", err)
	}

	return songs, nil
}

// Ensure songRepository implements repository.SongRepository.
var _ repository.SongRepository = (*songRepository)(nil)
