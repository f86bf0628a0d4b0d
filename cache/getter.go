package cache

import (
	"context"
	"encoding/json"
	"reflect"
	"time"

	"github.com/jonwraymond/awscache/observe"
)

// FetchFunc retrieves a fresh value. It returns ok=false when the remote call
// succeeded but produced no usable value.
type FetchFunc[T any] func(ctx context.Context) (value T, ok bool, err error)

// GetParams describes one GetAndCache call.
type GetParams[T any] struct {
	// CacheKey identifies the value in the store. Required.
	CacheKey string
	// TTL overrides the client's default TTL when non-nil.
	TTL *time.Duration
	// NoValueFoundMessage is the message of the NotFoundError returned when
	// Fetch reports no value.
	NoValueFoundMessage string
	// Operation and Region label telemetry. Region defaults to the client's.
	Operation string
	Region    string
	// Fetch is called on a miss.
	Fetch FetchFunc[T]
}

// GetAndCache returns the value stored under p.CacheKey, or calls p.Fetch,
// stores its result and returns it.
//
// Errors from Fetch are returned unmodified and nothing is stored. When Fetch
// reports no value a *NotFoundError is returned and nothing is stored, so the
// next call fetches again. A failure to write the store is logged and the
// fetched value is still returned.
func GetAndCache[T any](ctx context.Context, c *Client, p GetParams[T]) (T, error) {
	var zero T
	if c == nil {
		return zero, ErrNilClient
	}
	if p.Fetch == nil {
		return zero, ErrNilFetch
	}
	if err := ValidateKey(p.CacheKey); err != nil {
		return zero, err
	}

	cfg := c.Config()
	ttl := c.policy.EffectiveTTL(p.TTL, cfg.DefaultTTL)
	if ttl < 0 {
		return zero, ErrInvalidTTL
	}

	meta := observe.FetchMeta{Resource: c.resource, Operation: p.Operation, Region: p.Region}
	if meta.Region == "" {
		meta.Region = cfg.Region
	}

	if v, ok := lookup[T](ctx, c, p.CacheKey); ok {
		c.mw.Lookup(ctx, meta, true)
		return v, nil
	}
	c.mw.Lookup(ctx, meta, false)

	if c.group == nil {
		return populate(ctx, c, p, ttl, meta)
	}

	// Callers asking for different types under one key must not share a result.
	flightKey := p.CacheKey + "\x00" + reflect.TypeFor[T]().String()
	// The shared fetch outlives any one caller; each caller still stops
	// waiting when its own ctx is done.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey, func() (any, error) {
		return populate(shared, c, p, ttl, meta)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func lookup[T any](ctx context.Context, c *Client, key string) (T, bool) {
	var zero T

	raw, ok := c.store.Get(ctx, key)
	if !ok {
		return zero, false
	}
	if v, ok := raw.(T); ok {
		return v, true
	}
	if doc, ok := raw.(json.RawMessage); ok {
		var v T
		if err := json.Unmarshal(doc, &v); err != nil {
			c.mw.Logger().Debug(ctx, "cached document does not decode", observe.F("resource", c.resource), observe.F("error", err))
			return zero, false
		}
		return v, true
	}
	return zero, false
}

func populate[T any](ctx context.Context, c *Client, p GetParams[T], ttl time.Duration, meta observe.FetchMeta) (T, error) {
	var (
		zero  T
		value T
	)

	found, err := c.mw.Fetch(ctx, meta, func(ctx context.Context) (bool, error) {
		v, ok, err := p.Fetch(ctx)
		if err != nil {
			return false, err
		}
		value = v
		return ok, nil
	})
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, &NotFoundError{Message: p.NoValueFoundMessage, Key: p.CacheKey}
	}

	if err := c.store.Set(ctx, p.CacheKey, value, ttl); err != nil {
		c.mw.Logger().Warn(ctx, "cache write failed",
			observe.F("resource", c.resource),
			observe.F("operation", p.Operation),
			observe.F("error", err),
		)
	}

	return value, nil
}
