package cache

import (
	"context"
	"strings"
	"time"
)

// MaxKeyLength is the longest derived key stored verbatim. Longer derived keys
// are hashed by the Keyer.
const MaxKeyLength = 512

// Store is an expiring key-value store shared by cache clients.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Expiry: Get never returns an expired entry. A ttl of 0 means never expire.
// - Errors: Get never errors; it returns (nil, false) on miss or backend failure.
// - Set rejects a negative ttl with ErrInvalidTTL.
type Store interface {
	// Get retrieves a stored value. Returns (nil, false) on miss.
	Get(ctx context.Context, key string) (any, bool)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes a stored value. Idempotent - no error on miss.
	Delete(ctx context.Context, key string) error
}

// ValidateKey checks that key is usable as a cache key.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}
