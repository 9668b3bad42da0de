package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer.
// Implementations can be swapped (Redis, in-memory).
type Cache interface {
	// Get reads key and unmarshals it into dest.
	// Returns (found, error):
	// - found = true: cache hit, dest holds the value
	// - found = false: cache miss, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with a TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys
	Delete(ctx context.Context, keys ...string) error

	// Ping checks the connection
	Ping(ctx context.Context) error
}
