// Package cached wraps repositories with a read-through cache. Cache
// failures never fail a request; the decorators degrade to the inner
// repository and log at debug level.
package cached

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/mk-hx/cadence/internal/domain"
	"github.com/mk-hx/cadence/internal/repository"
)

// songRepository decorates a SongRepository with per-song caching.
type songRepository struct {
	inner  repository.SongRepository
	cache  repository.Cache
	ttl    time.Duration
	logger zerolog.Logger
	keys   repository.CacheKey
}

// NewSongRepository wraps inner so GetByID is served from the cache when
// possible. Writes invalidate the affected entry.
func NewSongRepository(inner repository.SongRepository, cache repository.Cache, ttl time.Duration, logger zerolog.Logger) repository.SongRepository {
	return &songRepository{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "song_cache").Logger(),
	}
}

// Create passes through; nothing is cached for a song until it is read.
func (r *songRepository) Create(ctx context.Context, song *domain.Song) error {
	return r.inner.Create(ctx, song)
}

// GetByID serves the song from cache when present, falling back to the
// inner repository and priming the cache on the way out.
func (r *songRepository) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	key := r.keys.Song(id)

	if data, err := r.cache.Get(ctx, key); err == nil {
		song := &domain.Song{}
		if err := json.Unmarshal(data, song); err == nil {
			return song, nil
		}
		// Corrupt entry; drop it and fall through.
		_ = r.cache.Delete(ctx, key)
	}

	song, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(song); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			r.logger.Debug().Err(err).Str("key", key).Msg("failed to prime cache")
		}
	}

	return song, nil
}

func (r *songRepository) List(ctx context.Context) ([]*domain.Song, error) {
	return r.inner.List(ctx)
}

func (r *songRepository) ListByArtist(ctx context.Context, artist string) ([]*domain.Song, error) {
	return r.inner.ListByArtist(ctx, artist)
}

func (r *songRepository) ListByGenre(ctx context.Context, genre string) ([]*domain.Song, error) {
	return r.inner.ListByGenre(ctx, genre)
}

// Update writes through to the inner repository and invalidates the entry.
func (r *songRepository) Update(ctx context.Context, song *domain.Song) error {
	if err := r.inner.Update(ctx, song); err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, r.keys.Song(song.ID)); err != nil {
		r.logger.Debug().Err(err).Str("song_id", song.ID).Msg("failed to invalidate cache")
	}

	return nil
}

// Delete writes through to the inner repository and invalidates the entry.
// Playlist duration entries counting the song are left to expire by TTL;
// the song repository cannot enumerate the playlists referencing it.
func (r *songRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, r.keys.Song(id)); err != nil {
		r.logger.Debug().Err(err).Str("song_id", id).Msg("failed to invalidate cache")
	}

	return nil
}

func (r *songRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.inner.Exists(ctx, id)
}

// Ensure songRepository implements repository.SongRepository.
var _ repository.SongRepository = (*songRepository)(nil)
