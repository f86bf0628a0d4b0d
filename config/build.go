package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jonwraymond/awscache/awsclient"
	"github.com/jonwraymond/awscache/cache"
	"github.com/jonwraymond/awscache/health"
	"github.com/jonwraymond/awscache/kmscache"
	"github.com/jonwraymond/awscache/observe"
	"github.com/jonwraymond/awscache/resilience"
	"github.com/jonwraymond/awscache/secret"
	"github.com/jonwraymond/awscache/secretcache"
	"github.com/jonwraymond/awscache/ssmcache"
)

// Runtime is the caching stack built from a Config.
type Runtime struct {
	Store      cache.Store
	Parameters *ssmcache.Cache
	Secrets    *secretcache.Cache
	Decrypt    *kmscache.Cache
	Resolver   *secret.Resolver
	Health     *health.Aggregator
	Observer   observe.Observer
}

// Option customises Build.
type Option func(*buildOptions)

type buildOptions struct {
	ssmWrap        awsclient.Wrapper[ssmcache.API]
	secretsWrap    awsclient.Wrapper[secretcache.API]
	kmsWrap        awsclient.Wrapper[kmscache.API]
	ssmFetcher     ssmcache.Fetcher
	secretsFetcher secretcache.Fetcher
	kmsFetcher     kmscache.Fetcher
}

// WithSSMWrapper applies wrap to every SSM client.
func WithSSMWrapper(wrap awsclient.Wrapper[ssmcache.API]) Option {
	return func(o *buildOptions) { o.ssmWrap = wrap }
}

// WithSecretsWrapper applies wrap to every Secrets Manager client.
func WithSecretsWrapper(wrap awsclient.Wrapper[secretcache.API]) Option {
	return func(o *buildOptions) { o.secretsWrap = wrap }
}

// WithKMSWrapper applies wrap to every KMS client.
func WithKMSWrapper(wrap awsclient.Wrapper[kmscache.API]) Option {
	return func(o *buildOptions) { o.kmsWrap = wrap }
}

// WithSSMFetcher replaces the AWS parameter fetcher.
func WithSSMFetcher(f ssmcache.Fetcher) Option {
	return func(o *buildOptions) { o.ssmFetcher = f }
}

// WithSecretsFetcher replaces the AWS secret fetcher.
func WithSecretsFetcher(f secretcache.Fetcher) Option {
	return func(o *buildOptions) { o.secretsFetcher = f }
}

// WithKMSFetcher replaces the AWS decrypt fetcher.
func WithKMSFetcher(f kmscache.Fetcher) Option {
	return func(o *buildOptions) { o.kmsFetcher = f }
}

// Build wires the store, telemetry, resilience and the three resource caches
// described by cfg. SDK clients are created lazily on first use.
func Build(ctx context.Context, cfg Config, opts ...Option) (_ *Runtime, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}

	rt := &Runtime{}
	defer func() {
		if err != nil {
			_ = rt.Close(ctx)
		}
	}()

	rt.Observer, err = observe.NewObserver(ctx, cfg.Observe)
	if err != nil {
		return nil, fmt.Errorf("config: observer: %w", err)
	}
	logger := rt.Observer.Logger()
	mw, err := observe.MiddlewareFromObserver(rt.Observer)
	if err != nil {
		return nil, fmt.Errorf("config: middleware: %w", err)
	}

	rt.Store, err = buildStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	cacheOpts := []cache.Option{
		cache.WithStore(rt.Store),
		cache.WithPolicy(cache.Policy{MaxTTL: cfg.MaxTTL}),
		cache.WithMiddleware(mw),
	}
	if cfg.Deduplicate {
		cacheOpts = append(cacheOpts, cache.WithDeduplication())
	}
	cacheCfg := cfg.CacheConfig()

	rt.Health = health.NewAggregator()
	rt.Health.Register("store", health.NewStoreChecker(rt.Store, health.StoreCheckerConfig{}))
	if sizer, ok := rt.Store.(health.Sizer); ok {
		rt.Health.Register("cache_entries", health.NewCapacityChecker(sizer, capacityConfig(cfg.Health.MaxEntries)))
	}

	settings := func(resource string) awsclient.Settings {
		exec, cb := buildExecutor(resource, cfg.Resilience, logger)
		if cb != nil {
			checker := health.NewCircuitChecker(cb)
			rt.Health.Register(checker.Name(), checker)
		}
		return awsclient.Settings{Options: cfg.AWS, Executor: exec}
	}

	ssmFetcher := bo.ssmFetcher
	if ssmFetcher == nil {
		ssmFetcher = ssmcache.NewAWSFetcher(settings(ssmcache.Resource), bo.ssmWrap)
	}
	secretsFetcher := bo.secretsFetcher
	if secretsFetcher == nil {
		secretsFetcher = secretcache.NewAWSFetcher(settings(secretcache.Resource), bo.secretsWrap)
	}
	kmsFetcher := bo.kmsFetcher
	if kmsFetcher == nil {
		kmsFetcher = kmscache.NewAWSFetcher(settings(kmscache.Resource), bo.kmsWrap)
	}

	rt.Parameters = ssmcache.New(cacheCfg, ssmFetcher, cacheOpts...)
	rt.Secrets = secretcache.New(cacheCfg, secretsFetcher, cacheOpts...)
	rt.Decrypt = kmscache.New(cacheCfg, kmsFetcher, cacheOpts...)

	if name := cfg.Health.ProbeParameter; name != "" {
		rt.Health.Register("ssm_probe", health.NewProbeChecker(ssmcache.Resource, func(ctx context.Context) error {
			_, err := rt.Parameters.GetParameter(ctx, ssmcache.GetParameterRequest{Name: name})
			return err
		}))
	}

	rt.Resolver, err = secret.DefaultRegistry.Resolver(cfg.Secrets.Strict, secret.Sources{
		SSM:     rt.Parameters,
		Secrets: rt.Secrets,
		KMS:     rt.Decrypt,
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cache runtime ready",
		observe.F("region", cfg.Region),
		observe.F("store", cfg.Store.Backend),
		observe.F("default_ttl", cfg.DefaultTTL.String()),
	)
	return rt, nil
}

// ResolveValue resolves env and secretref references in value.
func (rt *Runtime) ResolveValue(ctx context.Context, value string) (string, error) {
	return rt.Resolver.ResolveValue(ctx, value)
}

// Close releases the resolver, the store connection and telemetry providers.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.Resolver != nil {
		errs = append(errs, rt.Resolver.Close())
	}
	if c, ok := rt.Store.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if rt.Observer != nil {
		errs = append(errs, rt.Observer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func buildStore(ctx context.Context, cfg StoreConfig, logger observe.Logger) (cache.Store, error) {
	switch cfg.Backend {
	case BackendRedis:
		opts := []cache.RedisOption{cache.WithRedisLogger(logger)}
		if cfg.KeyPrefix != "" {
			opts = append(opts, cache.WithKeyPrefix(cfg.KeyPrefix))
		}
		store, err := cache.NewRedisStoreFromURL(ctx, cfg.RedisURL, opts...)
		if err != nil {
			return nil, fmt.Errorf("config: store: %w", err)
		}
		return store, nil
	default:
		if cfg.CleanupInterval > 0 {
			return cache.NewMemoryStore(cfg.CleanupInterval), nil
		}
		return cache.DefaultStore(), nil
	}
}

func buildExecutor(resource string, cfg ResilienceConfig, logger observe.Logger) (*resilience.Executor, *resilience.CircuitBreaker) {
	var (
		opts []resilience.ExecutorOption
		cb   *resilience.CircuitBreaker
	)

	if cfg.CircuitBreaker.Enabled {
		cb = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:             resource,
			MaxFailures:      cfg.CircuitBreaker.MaxFailures,
			ResetTimeout:     cfg.CircuitBreaker.ResetTimeout,
			FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
			MinRequests:      cfg.CircuitBreaker.MinRequests,
			OnStateChange: func(name string, from, to resilience.State) {
				logger.Warn(context.Background(), "circuit breaker state changed",
					observe.F("resource", name),
					observe.F("from", from.String()),
					observe.F("to", to.String()),
				)
			},
		})
		opts = append(opts, resilience.WithCircuitBreaker(cb))
	}

	if cfg.Retry.Enabled {
		opts = append(opts, resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts:  cfg.Retry.MaxAttempts,
			InitialDelay: cfg.Retry.InitialDelay,
			MaxDelay:     cfg.Retry.MaxDelay,
			Jitter:       cfg.Retry.Jitter,
			OnRetry: func(attempt int, err error, delay time.Duration) {
				logger.Debug(context.Background(), "retrying remote call",
					observe.F("resource", resource),
					observe.F("attempt", attempt),
					observe.F("delay", delay.String()),
					observe.F("error", err),
				)
			},
		})))
	}

	if cfg.Timeout > 0 {
		opts = append(opts, resilience.WithTimeout(cfg.Timeout))
	}

	if len(opts) == 0 {
		return nil, nil
	}
	return resilience.NewExecutor(opts...), cb
}

func capacityConfig(maxEntries int) health.CapacityCheckerConfig {
	if maxEntries <= 0 {
		return health.CapacityCheckerConfig{}
	}
	return health.CapacityCheckerConfig{
		WarningEntries:  max(1, maxEntries*8/10),
		CriticalEntries: maxEntries,
	}
}
