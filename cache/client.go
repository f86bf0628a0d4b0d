package cache

import (
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/awscache/observe"
)

// Client holds the configuration and collaborators shared by every lookup of
// one resource cache.
type Client struct {
	resource string
	cfg      atomic.Pointer[Config]
	store    Store
	policy   Policy
	keyer    Keyer
	mw       *observe.Middleware
	group    *singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithStore sets the backing store. A nil store keeps DefaultStore.
func WithStore(s Store) Option {
	return func(c *Client) {
		if s != nil {
			c.store = s
		}
	}
}

// WithPolicy sets the TTL policy.
func WithPolicy(p Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithKeyer sets the keyer applied to derived keys.
func WithKeyer(k Keyer) Option {
	return func(c *Client) {
		if k != nil {
			c.keyer = k
		}
	}
}

// WithMiddleware sets the telemetry middleware wrapped around lookups and
// fetches.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(c *Client) {
		if mw != nil {
			c.mw = mw
		}
	}
}

// WithDeduplication makes concurrent misses on the same key share a single
// fetch. Without it every missing caller fetches on its own. The shared fetch
// is not cancelled when the caller that started it gives up; bound it with a
// resilience timeout on the fetcher.
func WithDeduplication() Option {
	return func(c *Client) {
		c.group = &singleflight.Group{}
	}
}

// NewClient creates a client for the named resource ("ssm", "secretsmanager",
// "kms", ...). The resource name only labels telemetry.
func NewClient(resource string, cfg Config, opts ...Option) *Client {
	c := &Client{
		resource: resource,
		store:    DefaultStore(),
		policy:   DefaultPolicy(),
		keyer:    NewDefaultKeyer(),
		mw:       observe.NopMiddleware(),
	}
	c.cfg.Store(&cfg)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resource returns the resource name.
func (c *Client) Resource() string { return c.resource }

// Store returns the backing store.
func (c *Client) Store() Store { return c.store }

// Config returns a snapshot of the current configuration.
func (c *Client) Config() Config { return *c.cfg.Load() }

// Region returns the current default region.
func (c *Client) Region() string { return c.Config().Region }

// SetRegion replaces the default region for subsequent calls.
func (c *Client) SetRegion(region string) {
	c.update(func(cfg *Config) { cfg.Region = region })
}

// DefaultTTL returns the current default TTL.
func (c *Client) DefaultTTL() time.Duration { return c.Config().DefaultTTL }

// SetDefaultTTL replaces the default TTL for subsequent calls.
func (c *Client) SetDefaultTTL(ttl time.Duration) {
	c.update(func(cfg *Config) { cfg.DefaultTTL = ttl })
}

func (c *Client) update(fn func(*Config)) {
	for {
		old := c.cfg.Load()
		next := *old
		fn(&next)
		if c.cfg.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Resolve merges per-call overrides with the current configuration. An
// explicit cache key is used verbatim; otherwise defaultKey is passed through
// the keyer.
func (c *Client) Resolve(o Overrides, defaultKey string) Resolved {
	eff := c.Config().With(o)

	key := o.CacheKey
	if key == "" {
		key = c.keyer.Key(defaultKey)
	}

	return Resolved{
		CacheKey: key,
		TTL:      c.policy.EffectiveTTL(nil, eff.DefaultTTL),
		Region:   eff.Region,
	}
}
