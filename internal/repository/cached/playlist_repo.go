package cached

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/mk-hx/cadence/internal/domain"
	"github.com/mk-hx/cadence/internal/repository"
)

// playlistRepository decorates a PlaylistRepository with caching of the
// playlist row and its aggregated duration. The duration is the one read
// worth caching: it joins the junction table against songs on every call.
type playlistRepository struct {
	inner  repository.PlaylistRepository
	cache  repository.Cache
	ttl    time.Duration
	logger zerolog.Logger
	keys   repository.CacheKey
}

// NewPlaylistRepository wraps inner so GetByID and TotalDuration are served
// from the cache when possible. Writes invalidate the affected entries.
func NewPlaylistRepository(inner repository.PlaylistRepository, cache repository.Cache, ttl time.Duration, logger zerolog.Logger) repository.PlaylistRepository {
	return &playlistRepository{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "playlist_cache").Logger(),
	}
}

// Create passes through; nothing is cached for a playlist until it is read.
func (r *playlistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	return r.inner.Create(ctx, playlist)
}

// GetByID serves the playlist from cache when present, falling back to the
// inner repository and priming the cache on the way out.
func (r *playlistRepository) GetByID(ctx context.Context, id string) (*domain.Playlist, error) {
	key := r.keys.Playlist(id)

	if data, err := r.cache.Get(ctx, key); err == nil {
		playlist := &domain.Playlist{}
		if err := json.Unmarshal(data, playlist); err == nil {
			return playlist, nil
		}
		_ = r.cache.Delete(ctx, key)
	}

	playlist, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(playlist); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			r.logger.Debug().Err(err).Str("key", key).Msg("failed to prime cache")
		}
	}

	return playlist, nil
}

func (r *playlistRepository) List(ctx context.Context) ([]*domain.Playlist, error) {
	return r.inner.List(ctx)
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Playlist, error) {
	return r.inner.ListByOwner(ctx, ownerID)
}

// Update writes through to the inner repository and invalidates the
// playlist entry.
func (r *playlistRepository) Update(ctx context.Context, playlist *domain.Playlist) error {
	if err := r.inner.Update(ctx, playlist); err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, r.keys.Playlist(playlist.ID)); err != nil {
		r.logger.Debug().Err(err).Str("playlist_id", playlist.ID).Msg("failed to invalidate cache")
	}

	return nil
}

// Delete writes through to the inner repository and drops both entries.
func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}

	if err := r.cache.DeleteMulti(ctx, r.keys.Playlist(id), r.keys.PlaylistDuration(id)); err != nil {
		r.logger.Debug().Err(err).Str("playlist_id", id).Msg("failed to invalidate cache")
	}

	return nil
}

func (r *playlistRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.inner.Exists(ctx, id)
}

// AddTrack passes through and invalidates the cached duration, which the
// new track just changed.
func (r *playlistRepository) AddTrack(ctx context.Context, playlistID, songID string) (*domain.PlaylistTrack, error) {
	track, err := r.inner.AddTrack(ctx, playlistID, songID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Delete(ctx, r.keys.PlaylistDuration(playlistID)); err != nil {
		r.logger.Debug().Err(err).Str("playlist_id", playlistID).Msg("failed to invalidate cache")
	}

	return track, nil
}

// RemoveTrack passes through and invalidates the cached duration.
func (r *playlistRepository) RemoveTrack(ctx context.Context, playlistID, songID string) error {
	if err := r.inner.RemoveTrack(ctx, playlistID, songID); err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, r.keys.PlaylistDuration(playlistID)); err != nil {
		r.logger.Debug().Err(err).Str("playlist_id", playlistID).Msg("failed to invalidate cache")
	}

	return nil
}

func (r *playlistRepository) GetTracks(ctx context.Context, playlistID string) ([]*domain.Song, error) {
	return r.inner.GetTracks(ctx, playlistID)
}

// TotalDuration serves the aggregate from cache when present, falling back
// to the inner repository and priming the cache on the way out.
func (r *playlistRepository) TotalDuration(ctx context.Context, playlistID string) (int, error) {
	key := r.keys.PlaylistDuration(playlistID)

	if data, err := r.cache.Get(ctx, key); err == nil {
		if total, err := strconv.Atoi(string(data)); err == nil {
			return total, nil
		}
		_ = r.cache.Delete(ctx, key)
	}

	total, err := r.inner.TotalDuration(ctx, playlistID)
	if err != nil {
		return 0, err
	}

	if err := r.cache.Set(ctx, key, []byte(strconv.Itoa(total)), r.ttl); err != nil {
		r.logger.Debug().Err(err).Str("key", key).Msg("failed to prime cache")
	}

	return total, nil
}

// Ensure playlistRepository implements repository.PlaylistRepository.
var _ repository.PlaylistRepository = (*playlistRepository)(nil)
