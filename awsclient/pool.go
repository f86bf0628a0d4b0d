package awsclient

import (
	"context"
	"errors"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ErrMissingRegion is returned when a client is requested without a region.
var ErrMissingRegion = errors.New("awsclient: region is required")

// Wrapper decorates a newly created client. It runs once per client.
type Wrapper[T any] func(T) T

// Factory creates a client for one region.
type Factory[T any] func(ctx context.Context, region string) (T, error)

// FromConfig returns a Factory that loads an aws.Config with opts and passes
// it to build, e.g. ssm.NewFromConfig.
func FromConfig[T any](opts Options, build func(aws.Config) T) Factory[T] {
	return func(ctx context.Context, region string) (T, error) {
		cfg, err := LoadConfig(ctx, region, opts)
		if err != nil {
			var zero T
			return zero, err
		}
		return build(cfg), nil
	}
}

// Static returns a Factory that hands out client for every region. Useful
// for tests and single-region deployments.
func Static[T any](client T) Factory[T] {
	return func(context.Context, string) (T, error) {
		return client, nil
	}
}

// Pool caches one client per region.
type Pool[T any] struct {
	mu      sync.Mutex
	clients map[string]T
	factory Factory[T]
	wrap    Wrapper[T]
}

// NewPool creates an empty pool. wrap may be nil.
func NewPool[T any](factory Factory[T], wrap Wrapper[T]) *Pool[T] {
	return &Pool[T]{
		clients: make(map[string]T),
		factory: factory,
		wrap:    wrap,
	}
}

// Get returns the client for region, creating and wrapping it on first use.
// A failed creation is not cached.
func (p *Pool[T]) Get(ctx context.Context, region string) (T, error) {
	var zero T
	if region == "" {
		return zero, ErrMissingRegion
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[region]; ok {
		return c, nil
	}

	c, err := p.factory(ctx, region)
	if err != nil {
		return zero, err
	}
	if p.wrap != nil {
		c = p.wrap(c)
	}
	p.clients[region] = c
	return c, nil
}

// Len returns the number of regions with a client.
func (p *Pool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}
