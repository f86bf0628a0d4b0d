package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonwraymond/awscache/awsclient"
	"github.com/jonwraymond/awscache/cache"
	"github.com/jonwraymond/awscache/observe"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config is the root configuration.
type Config struct {
	// Region is the default region of every cache.
	Region string `yaml:"region" validate:"required"`
	// DefaultTTL applies when a request has no TTL override. 0 never expires.
	DefaultTTL time.Duration `yaml:"default_ttl" validate:"gte=0"`
	// MaxTTL clamps effective TTLs. 0 disables the clamp.
	MaxTTL time.Duration `yaml:"max_ttl" validate:"gte=0"`
	// Deduplicate collapses concurrent misses on one key into one fetch.
	Deduplicate bool `yaml:"deduplicate"`

	Store      StoreConfig       `yaml:"store"`
	AWS        awsclient.Options `yaml:"aws"`
	Resilience ResilienceConfig  `yaml:"resilience"`
	Observe    observe.Config    `yaml:"observe"`
	Secrets    SecretsConfig     `yaml:"secrets"`
	Health     HealthConfig      `yaml:"health"`
}

// StoreConfig selects the cache store.
type StoreConfig struct {
	Backend string `yaml:"backend" validate:"oneof=memory redis"`
	// RedisURL is a redis:// or rediss:// URL.
	RedisURL  string `yaml:"redis_url" validate:"required_if=Backend redis"`
	KeyPrefix string `yaml:"key_prefix"`
	// CleanupInterval > 0 gives the caches a private memory store swept at
	// that interval. 0 uses the process-wide store.
	CleanupInterval time.Duration `yaml:"cleanup_interval" validate:"gte=0"`
}

// ResilienceConfig configures the executor wrapped around remote calls.
type ResilienceConfig struct {
	// Timeout bounds each remote attempt. 0 disables it.
	Timeout        time.Duration        `yaml:"timeout" validate:"gte=0"`
	Retry          RetryConfig          `yaml:"retry"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// RetryConfig configures retries of throttled and transient failures.
type RetryConfig struct {
	Enabled      bool          `yaml:"enabled"`
	MaxAttempts  int           `yaml:"max_attempts" validate:"gte=0"`
	InitialDelay time.Duration `yaml:"initial_delay" validate:"gte=0"`
	MaxDelay     time.Duration `yaml:"max_delay" validate:"gte=0"`
	Jitter       bool          `yaml:"jitter"`
}

// CircuitBreakerConfig configures one breaker per resource.
type CircuitBreakerConfig struct {
	Enabled          bool          `yaml:"enabled"`
	MaxFailures      uint32        `yaml:"max_failures"`
	ResetTimeout     time.Duration `yaml:"reset_timeout" validate:"gte=0"`
	FailureThreshold float64       `yaml:"failure_threshold" validate:"gte=0,lte=1"`
	MinRequests      uint32        `yaml:"min_requests"`
}

// SecretsConfig configures secretref resolution.
type SecretsConfig struct {
	// Strict rejects references that resolve to "".
	Strict bool `yaml:"strict"`
}

// HealthConfig configures the health checks registered by Build.
type HealthConfig struct {
	// ProbeParameter, when set, is read through the parameter cache by a
	// health probe.
	ProbeParameter string `yaml:"probe_parameter"`
	// MaxEntries is the unhealthy entry count of a memory store. 0 uses
	// the checker default.
	MaxEntries int `yaml:"max_entries" validate:"gte=0"`
}

// Default returns the configuration used for keys absent from a file.
func Default() Config {
	return Config{
		Store: StoreConfig{Backend: BackendMemory},
		Observe: observe.Config{
			ServiceName: "awscache",
			Logging:     observe.LoggingConfig{Level: "info"},
		},
		Secrets: SecretsConfig{Strict: true},
	}
}

// CacheConfig returns the cache configuration shared by the resource caches.
func (c Config) CacheConfig() cache.Config {
	return cache.Config{Region: c.Region, DefaultTTL: c.DefaultTTL}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags, then the observability settings.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if err := c.Observe.Validate(); err != nil {
		return fmt.Errorf("config: observe: %w", err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
