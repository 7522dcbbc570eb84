package repository

import (
	"context"
	"time"
)

// =============================================================================
// Cache Interface
// =============================================================================

// Cache defines the interface for caching operations. Values are opaque
// byte slices; callers own the encoding. Implementations must report a miss
// as ErrCacheMiss, never as a failure.
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL.
	// If ttl is 0, the value doesn't expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// DeleteMulti removes multiple values.
	DeleteMulti(ctx context.Context, keys ...string) error

	// Exists checks if a key exists.
	Exists(ctx context.Context, key string) (bool, error)
}

// =============================================================================
// Common Cache Keys
// =============================================================================

// CacheKey generates cache keys for common scenarios.
type CacheKey struct{}

// Song returns a cache key for song metadata.
func (CacheKey) Song(id string) string {
	return "cache:song:" + id
}

// Playlist returns a cache key for playlist metadata.
func (CacheKey) Playlist(id string) string {
	return "cache:playlist:" + id
}

// PlaylistDuration returns a cache key for a playlist's total duration.
func (CacheKey) PlaylistDuration(id string) string {
	return "cache:playlist:duration:" + id
}
