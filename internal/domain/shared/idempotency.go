package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys of requests that were already accepted so a
// blind client retry cannot run a non-idempotent mutation twice.
type IdempotencyStore interface {
	// Reserve claims key for ttl.
	// Returns true if the key was newly claimed, false if it is already in use.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a key so the request can be retried (used when the mutation failed)
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a key stays reserved
	// Default: 24 hours
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	// Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
