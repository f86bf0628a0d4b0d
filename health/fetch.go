package health

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/awscache/cache"
	"github.com/jonwraymond/awscache/resilience"
)

// CircuitChecker reports the state of a fetcher circuit breaker.
type CircuitChecker struct {
	cb *resilience.CircuitBreaker
}

// NewCircuitChecker creates a circuit checker.
func NewCircuitChecker(cb *resilience.CircuitBreaker) *CircuitChecker {
	return &CircuitChecker{cb: cb}
}

// Name returns "circuit:" followed by the breaker name.
func (c *CircuitChecker) Name() string {
	return "circuit:" + c.cb.Name()
}

// Check maps open to unhealthy and half-open to degraded.
func (c *CircuitChecker) Check(context.Context) Result {
	state := c.cb.State()
	counts := c.cb.Counts()
	details := map[string]any{
		"state":                state.String(),
		"requests":             counts.Requests,
		"consecutive_failures": counts.ConsecutiveFailures,
	}

	switch state {
	case resilience.StateOpen:
		return Unhealthy("circuit open", resilience.ErrCircuitOpen).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit half-open").WithDetails(details)
	default:
		return Healthy("circuit closed").WithDetails(details)
	}
}

// ProbeChecker runs a remote read. A not-found answer still proves the
// backend is reachable and counts as healthy.
type ProbeChecker struct {
	name  string
	probe func(context.Context) error
}

// NewProbeChecker creates a probe checker.
func NewProbeChecker(name string, probe func(context.Context) error) *ProbeChecker {
	return &ProbeChecker{name: name, probe: probe}
}

// Name returns the name of this checker.
func (p *ProbeChecker) Name() string {
	return p.name
}

// Check runs the probe.
func (p *ProbeChecker) Check(ctx context.Context) Result {
	err := p.probe(ctx)
	switch {
	case err == nil:
		return Healthy("reachable")
	case errors.Is(err, cache.ErrValueNotFound):
		return Healthy("reachable, probe value not found")
	case errors.Is(err, resilience.ErrCircuitOpen):
		return Unhealthy("circuit open", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, resilience.ErrTimeout):
		return Unhealthy("probe timed out", ErrCheckTimeout)
	default:
		return Unhealthy(fmt.Sprintf("%s probe failed", p.name), err)
	}
}

var (
	_ Checker = (*CircuitChecker)(nil)
	_ Checker = (*ProbeChecker)(nil)
)
