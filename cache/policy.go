package cache

import "time"

// Policy constrains the TTLs a client writes.
type Policy struct {
	// MaxTTL clamps every effective TTL, including "never expire" (0).
	// If zero, no maximum is enforced.
	MaxTTL time.Duration
}

// DefaultPolicy returns a policy that leaves TTLs untouched.
func DefaultPolicy() Policy {
	return Policy{}
}

// EffectiveTTL returns override when set and defaultTTL otherwise, clamped to
// MaxTTL. Negative values are returned as is and rejected by the store.
func (p Policy) EffectiveTTL(override *time.Duration, defaultTTL time.Duration) time.Duration {
	ttl := defaultTTL
	if override != nil {
		ttl = *override
	}

	if p.MaxTTL > 0 && (ttl == 0 || ttl > p.MaxTTL) {
		ttl = p.MaxTTL
	}

	return ttl
}
