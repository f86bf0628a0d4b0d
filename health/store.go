package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/awscache/cache"
)

// Pinger is implemented by stores with a cheap reachability check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreCheckerConfig configures a StoreChecker.
type StoreCheckerConfig struct {
	// ProbeKey is written, read back and deleted on every check.
	// Default: "awscache:health:probe"
	ProbeKey string

	// ProbeTTL bounds the probe entry if the delete fails.
	// Default: 10s
	ProbeTTL time.Duration

	// SlowThreshold reports degraded when a check takes longer.
	// Default: 250ms
	SlowThreshold time.Duration
}

// StoreChecker checks a cache store with a write/read/delete round trip,
// preceded by Ping when the store supports it.
type StoreChecker struct {
	store  cache.Store
	config StoreCheckerConfig
}

// NewStoreChecker creates a store checker.
func NewStoreChecker(store cache.Store, config StoreCheckerConfig) *StoreChecker {
	if config.ProbeKey == "" {
		config.ProbeKey = "awscache:health:probe"
	}
	if config.ProbeTTL <= 0 {
		config.ProbeTTL = 10 * time.Second
	}
	if config.SlowThreshold <= 0 {
		config.SlowThreshold = 250 * time.Millisecond
	}
	return &StoreChecker{store: store, config: config}
}

// Name returns the name of this checker.
func (s *StoreChecker) Name() string {
	return "store"
}

// Check performs the store round trip.
func (s *StoreChecker) Check(ctx context.Context) Result {
	if s.store == nil {
		return Unhealthy("no store configured", cache.ErrNilStore)
	}

	start := time.Now()
	details := map[string]any{"backend": fmt.Sprintf("%T", s.store)}

	if p, ok := s.store.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return Unhealthy("store unreachable", err).WithDetails(details)
		}
	}

	if err := s.store.Set(ctx, s.config.ProbeKey, "ok", s.config.ProbeTTL); err != nil {
		return Unhealthy("store write failed", err).WithDetails(details)
	}
	_, found := s.store.Get(ctx, s.config.ProbeKey)
	_ = s.store.Delete(ctx, s.config.ProbeKey)
	if !found {
		return Unhealthy("store probe not readable", ErrCheckFailed).WithDetails(details)
	}

	elapsed := time.Since(start)
	details["latency"] = elapsed.String()
	if elapsed > s.config.SlowThreshold {
		return Degraded(fmt.Sprintf("store slow: %s", elapsed)).WithDetails(details)
	}
	return Healthy("store reachable").WithDetails(details)
}

// Sizer reports the number of entries in a store.
type Sizer interface {
	Len() int
}

// CapacityCheckerConfig configures a CapacityChecker.
type CapacityCheckerConfig struct {
	// WarningEntries triggers degraded status. Default: 50000
	WarningEntries int

	// CriticalEntries triggers unhealthy status. Default: 100000
	CriticalEntries int
}

// CapacityChecker checks the entry count of an in-process store.
type CapacityChecker struct {
	store  Sizer
	config CapacityCheckerConfig
}

// NewCapacityChecker creates a capacity checker.
func NewCapacityChecker(store Sizer, config CapacityCheckerConfig) *CapacityChecker {
	if config.WarningEntries <= 0 {
		config.WarningEntries = 50000
	}
	if config.CriticalEntries <= 0 {
		config.CriticalEntries = 100000
	}
	if config.CriticalEntries < config.WarningEntries {
		config.CriticalEntries = config.WarningEntries * 2
	}
	return &CapacityChecker{store: store, config: config}
}

// Name returns the name of this checker.
func (c *CapacityChecker) Name() string {
	return "cache_entries"
}

// Check compares the entry count to the thresholds.
func (c *CapacityChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	n := c.store.Len()
	details := map[string]any{
		"entries":  n,
		"warning":  c.config.WarningEntries,
		"critical": c.config.CriticalEntries,
	}

	switch {
	case n >= c.config.CriticalEntries:
		return Unhealthy(fmt.Sprintf("cache entries critical: %d", n), ErrCheckFailed).WithDetails(details)
	case n >= c.config.WarningEntries:
		return Degraded(fmt.Sprintf("cache entries high: %d", n)).WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("cache entries normal: %d", n)).WithDetails(details)
	}
}

var (
	_ Checker = (*StoreChecker)(nil)
	_ Checker = (*CapacityChecker)(nil)
	_ Pinger  = (*cache.RedisStore)(nil)
	_ Sizer   = (*cache.MemoryStore)(nil)
)
