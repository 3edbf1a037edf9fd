// Package cache abstracts the key-value cache the catalog reads through.
// Values are opaque byte slices; encoding belongs to the caller. The Redis
// implementation is the production backend, the in-memory one serves tests
// and cache-less local runs.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Cache is a key-value store with TTL. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks connectivity to the backend.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}
