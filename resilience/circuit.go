package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// State is the circuit breaker state.
type State = gobreaker.State

// Circuit breaker states.
const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	// Name identifies the breaker in state change callbacks.
	Name string

	// MaxRequests is the number of probe calls allowed while half-open.
	// Default: 1
	MaxRequests uint32

	// Interval is how often counts are cleared while closed. 0 never clears.
	Interval time.Duration

	// ResetTimeout is how long the breaker stays open before probing.
	// Default: 30s
	ResetTimeout time.Duration

	// MaxFailures trips the breaker after this many consecutive failures.
	// Default: 5
	MaxFailures uint32

	// FailureThreshold, when set, trips the breaker once the failure ratio
	// reaches it and at least MinRequests calls were made.
	FailureThreshold float64
	MinRequests      uint32

	// IsFailure decides whether an error counts against the backend.
	// Default: IsBackendFailure
	IsFailure func(err error) bool

	// OnStateChange is called on every state transition.
	OnStateChange func(name string, from, to State)
}

// CircuitBreaker wraps a gobreaker.CircuitBreaker with context-aware execution.
type CircuitBreaker struct {
	config CircuitBreakerConfig
	cb     *gobreaker.CircuitBreaker
}

// NewCircuitBreaker creates a CircuitBreaker, filling in defaults for zero fields.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.MaxRequests == 0 {
		config.MaxRequests = 1
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.MaxFailures == 0 {
		config.MaxFailures = 5
	}
	if config.IsFailure == nil {
		config.IsFailure = IsBackendFailure
	}

	cfg := config
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.ResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= cfg.MaxFailures {
				return true
			}
			if cfg.FailureThreshold <= 0 || counts.Requests < cfg.MinRequests || counts.Requests == 0 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return !cfg.IsFailure(err)
		},
		OnStateChange: cfg.OnStateChange,
	}

	return &CircuitBreaker{config: cfg, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs op unless the breaker is open. Rejections wrap ErrCircuitOpen;
// errors from op are returned unchanged.
func (c *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, op(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s: %w", ErrCircuitOpen, c.cb.Name(), err)
	}
	return err
}

// State returns the current state.
func (c *CircuitBreaker) State() State {
	return c.cb.State()
}

// Counts returns the request counts of the current generation.
func (c *CircuitBreaker) Counts() gobreaker.Counts {
	return c.cb.Counts()
}

// Name returns the breaker name.
func (c *CircuitBreaker) Name() string {
	return c.cb.Name()
}

// Config returns the effective configuration.
func (c *CircuitBreaker) Config() CircuitBreakerConfig {
	return c.config
}
