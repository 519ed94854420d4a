package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys so a replayed create is rejected
// instead of allocating a second document number
type IdempotencyStore interface {
	// MarkProcessed records the key with a TTL.
	// Returns true if the key was newly recorded, false if it was already present
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if the key has already been recorded
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Forget removes a key so a failed request can be retried with it
	Forget(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a key blocks replays. Default: 24 hours
	TTL time.Duration

	// Enabled determines whether the Idempotency-Key header is honoured
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
