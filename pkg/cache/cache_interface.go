package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer so Redis can be swapped out.
type Cache interface {
	// Get unmarshals the cached value into dest; found is false on a miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value as JSON with a TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error
}
