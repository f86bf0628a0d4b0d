package cache

import "time"

// Config is the per-resource configuration of a Client. It is a value; a
// Client replaces it wholesale when a setter is called.
type Config struct {
	// Region is forwarded to fetchers when a call does not override it.
	Region string
	// DefaultTTL applies when a call does not override it. 0 means never expire.
	DefaultTTL time.Duration
}

// Validate checks that the configuration can be used for lookups.
func (c Config) Validate() error {
	if c.DefaultTTL < 0 {
		return ErrInvalidTTL
	}
	return nil
}

// With returns a copy of c with the region and TTL overrides in o applied.
func (c Config) With(o Overrides) Config {
	if o.Region != "" {
		c.Region = o.Region
	}
	if o.TTL != nil {
		c.DefaultTTL = *o.TTL
	}
	return c
}

// Overrides are the per-call settings every request can carry. Zero values
// defer to the client.
type Overrides struct {
	// CacheKey replaces the key derived from the request.
	CacheKey string
	// TTL replaces the client's default TTL. A pointer to 0 means never expire.
	TTL *time.Duration
	// Region replaces the client's region for this call.
	Region string
}

// TTL returns a pointer to d, for use in Overrides.
func TTL(d time.Duration) *time.Duration {
	return &d
}

// Resolved holds the effective settings of a single call.
type Resolved struct {
	CacheKey string
	TTL      time.Duration
	Region   string
}
