// Package lock provides local locking for playlist mutations.
// Track positions are computed as max(position)+1 inside a transaction;
// serializing writers per playlist up front keeps concurrent embedders of
// this library from burning unique-constraint retries on the same playlist.
package lock

import (
	"context"
	"time"
)

// Locker defines the interface for acquiring named locks.
type Locker interface {
	// Acquire attempts to acquire a lock.
	// Returns true if the lock was acquired, false if it's held elsewhere.
	// The lock automatically expires after the specified TTL.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// AcquireWithRetry attempts to acquire a lock with retries.
	// Will retry up to maxRetries times with retryDelay between attempts.
	AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error)

	// Release releases a lock.
	// Returns true if the lock was released, false if it wasn't held.
	Release(ctx context.Context, key string) (bool, error)

	// Extend extends the TTL of a held lock.
	// Returns true if the lock was extended, false if it's not held.
	Extend(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsHeld checks if the lock is currently held.
	IsHeld(ctx context.Context, key string) (bool, error)
}

// =============================================================================
// Common Lock Keys
// =============================================================================

// Keys provides lock key generation for common scenarios.
var Keys = lockKeys{}

type lockKeys struct{}

// PlaylistWrite returns a lock key serializing track mutations of one
// playlist.
func (lockKeys) PlaylistWrite(playlistID string) string {
	return "lock:playlist:write:" + playlistID
}
