package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/awscache/observe"
	"github.com/jonwraymond/awscache/secret"
)

func TestParse_Minimal(t *testing.T) {
	cfg, err := Parse([]byte("region: eu-west-1\n"))
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Zero(t, cfg.DefaultTTL)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.True(t, cfg.Secrets.Strict)
	assert.Equal(t, "awscache", cfg.Observe.ServiceName)
	assert.False(t, cfg.Deduplicate)
}

func TestParse_Full(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("AWS_KEY", "AKIDEXAMPLE")

	data := []byte(`
region: us-east-1
default_ttl: 15m
max_ttl: 1h
deduplicate: true
store:
  backend: redis
  redis_url: ${REDIS_URL}
  key_prefix: "app:"
aws:
  profile: staging
  endpoint_url: http://localhost:4566
  max_attempts: 5
  credentials:
    access_key_id: ${AWS_KEY}
    secret_access_key: secret
resilience:
  timeout: 2s
  retry:
    enabled: true
    max_attempts: 4
    initial_delay: 50ms
    max_delay: 1s
    jitter: true
  circuit_breaker:
    enabled: true
    max_failures: 3
    reset_timeout: 10s
    failure_threshold: 0.5
    min_requests: 10
observe:
  service_name: billing
  logging:
    enabled: true
    level: debug
secrets:
  strict: false
health:
  probe_parameter: /health/canary
  max_entries: 1000
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.DefaultTTL)
	assert.Equal(t, time.Hour, cfg.MaxTTL)
	assert.True(t, cfg.Deduplicate)
	assert.Equal(t, StoreConfig{Backend: BackendRedis, RedisURL: "redis://localhost:6379/0", KeyPrefix: "app:"}, cfg.Store)
	assert.Equal(t, "http://localhost:4566", cfg.AWS.EndpointURL)
	require.NotNil(t, cfg.AWS.Credentials)
	assert.Equal(t, "AKIDEXAMPLE", cfg.AWS.Credentials.AccessKeyID)
	assert.Equal(t, RetryConfig{Enabled: true, MaxAttempts: 4, InitialDelay: 50 * time.Millisecond, MaxDelay: time.Second, Jitter: true}, cfg.Resilience.Retry)
	assert.Equal(t, 0.5, cfg.Resilience.CircuitBreaker.FailureThreshold)
	assert.Equal(t, 2*time.Second, cfg.Resilience.Timeout)
	assert.Equal(t, "billing", cfg.Observe.ServiceName)
	assert.Equal(t, "debug", cfg.Observe.Logging.Level)
	assert.False(t, cfg.Secrets.Strict)
	assert.Equal(t, HealthConfig{ProbeParameter: "/health/canary", MaxEntries: 1000}, cfg.Health)

	cc := cfg.CacheConfig()
	assert.Equal(t, "us-east-1", cc.Region)
	assert.Equal(t, 15*time.Minute, cc.DefaultTTL)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantIs  error
		wantMsg string
	}{
		{name: "missing region", yaml: "default_ttl: 1m", wantIs: ErrInvalidConfig, wantMsg: "Region is required"},
		{name: "negative ttl", yaml: "region: x\ndefault_ttl: -1s", wantIs: ErrInvalidConfig, wantMsg: "DefaultTTL must be at least 0"},
		{name: "unknown backend", yaml: "region: x\nstore:\n  backend: disk", wantIs: ErrInvalidConfig, wantMsg: "Store.Backend must be one of: memory redis"},
		{name: "redis without url", yaml: "region: x\nstore:\n  backend: redis", wantIs: ErrInvalidConfig, wantMsg: "Store.RedisURL is required"},
		{name: "failure threshold", yaml: "region: x\nresilience:\n  circuit_breaker:\n    failure_threshold: 2", wantIs: ErrInvalidConfig, wantMsg: "Resilience.CircuitBreaker.FailureThreshold must be at most 1"},
		{name: "endpoint url", yaml: "region: x\naws:\n  endpoint_url: not a url", wantIs: ErrInvalidConfig, wantMsg: "AWS.EndpointURL must be a valid URL"},
		{name: "partial credentials", yaml: "region: x\naws:\n  credentials:\n    access_key_id: a", wantIs: ErrInvalidConfig, wantMsg: "AWS.Credentials.SecretAccessKey is required"},
		{name: "log level", yaml: "region: x\nobserve:\n  logging:\n    enabled: true\n    level: verbose", wantIs: observe.ErrInvalidLogLevel},
		{name: "missing env", yaml: "region: ${AWSCACHE_TEST_UNSET_REGION}", wantIs: secret.ErrMissingEnv},
		{name: "unknown key", yaml: "region: x\nregoin: y", wantMsg: "field regoin not found"},
		{name: "bad duration", yaml: "region: x\ndefault_ttl: soon", wantMsg: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "awscache.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: eu-central-1\ndefault_ttl: 90s\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, 90*time.Second, cfg.DefaultTTL)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("default_ttl: 1m\n"), 0o600))
	_, err = Load(bad)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), bad)
}
