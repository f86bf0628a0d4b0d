package config

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/awscache/cache"
	"github.com/jonwraymond/awscache/health"
	"github.com/jonwraymond/awscache/kmscache"
	"github.com/jonwraymond/awscache/secretcache"
	"github.com/jonwraymond/awscache/ssmcache"
)

type fakeBackend struct {
	mu     sync.Mutex
	values map[string]string
	calls  map[string]int
}

func newFakeBackend(values map[string]string) *fakeBackend {
	return &fakeBackend{values: values, calls: make(map[string]int)}
}

func (f *fakeBackend) get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[key]++
	v := f.values[key]
	return v, v != "", nil
}

func (f *fakeBackend) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeBackend) GetParameter(_ context.Context, _, name string) (string, bool, error) {
	return f.get(name)
}

func (f *fakeBackend) GetParametersByPath(context.Context, string, ssmcache.PathQuery) (*ssmcache.Page, error) {
	return nil, nil
}

func (f *fakeBackend) GetSecretValue(_ context.Context, _ string, q secretcache.SecretQuery) (string, bool, error) {
	return f.get(q.SecretID)
}

func (f *fakeBackend) Decrypt(_ context.Context, _ string, q kmscache.DecryptQuery) (string, bool, error) {
	return f.get(string(q.CiphertextBlob))
}

func withFakes(f *fakeBackend) []Option {
	return []Option{WithSSMFetcher(f), WithSecretsFetcher(f), WithKMSFetcher(f)}
}

func memoryConfig() Config {
	cfg := Default()
	cfg.Region = "eu-west-1"
	cfg.DefaultTTL = time.Minute
	cfg.Store.CleanupInterval = time.Minute
	return cfg
}

func TestBuild_Memory(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(map[string]string{
		"/app/db/password": "hunter2",
		"prod/api":         `{"token":"t0k"}`,
		"ciphertext":       "plain",
	})

	rt, err := Build(ctx, memoryConfig(), withFakes(backend)...)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, rt.Close(ctx)) })

	assert.NotSame(t, cache.DefaultStore(), rt.Store)
	for _, c := range []*cache.Client{rt.Parameters.Client, rt.Secrets.Client, rt.Decrypt.Client} {
		assert.Equal(t, "eu-west-1", c.Region())
		assert.Equal(t, time.Minute, c.DefaultTTL())
		assert.Same(t, rt.Store, c.Store())
	}

	for range 2 {
		v, err := rt.Parameters.GetParameter(ctx, ssmcache.GetParameterRequest{Name: "/app/db/password"})
		require.NoError(t, err)
		assert.Equal(t, "hunter2", v)
	}
	assert.Equal(t, 1, backend.callCount("/app/db/password"))

	blob := base64.StdEncoding.EncodeToString([]byte("ciphertext"))
	resolved, err := rt.ResolveValue(ctx, "db=secretref:ssm:/app/db/password token=secretref:secretsmanager:prod/api#token key=secretref:kms:"+blob)
	require.NoError(t, err)
	assert.Equal(t, "db=hunter2 token=t0k key=plain", resolved)
	assert.Equal(t, 1, backend.callCount("/app/db/password"), "resolver reads through the cache")

	report := rt.Health.Report(ctx)
	assert.Equal(t, health.StatusHealthy, report.Status)
	assert.ElementsMatch(t, []string{"store", "cache_entries"}, rt.Health.CheckerNames())
}

func TestBuild_DefaultStore(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.Store.CleanupInterval = 0

	rt, err := Build(ctx, cfg, withFakes(newFakeBackend(nil))...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(ctx) })

	assert.Same(t, cache.DefaultStore(), rt.Store)
}

func TestBuild_Redis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := memoryConfig()
	cfg.Store = StoreConfig{Backend: BackendRedis, RedisURL: "redis://" + mr.Addr(), KeyPrefix: "test:"}
	backend := newFakeBackend(map[string]string{"prod/db": "s3cret"})

	rt, err := Build(ctx, cfg, withFakes(backend)...)
	require.NoError(t, err)

	v, err := rt.Secrets.GetSecretAsString(ctx, secretcache.GetSecretRequest{SecretID: "prod/db"})
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)
	assert.True(t, mr.Exists("test:prod/db"))

	ttl := mr.TTL("test:prod/db")
	assert.Equal(t, time.Minute, ttl)

	v, err = rt.Secrets.GetSecretAsString(ctx, secretcache.GetSecretRequest{SecretID: "prod/db"})
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)
	assert.Equal(t, 1, backend.callCount("prod/db"))

	assert.Equal(t, []string{"store"}, rt.Health.CheckerNames())
	assert.Equal(t, health.StatusHealthy, rt.Health.Report(ctx).Status)
	require.NoError(t, rt.Close(ctx))
}

func TestBuild_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := memoryConfig()
	cfg.Store = StoreConfig{Backend: BackendRedis, RedisURL: "redis://" + addr}

	_, err := Build(context.Background(), cfg)
	assert.ErrorContains(t, err, "config: store")
}

func TestBuild_ResilienceRegistersCircuitChecks(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.Resilience = ResilienceConfig{
		Timeout:        time.Second,
		Retry:          RetryConfig{Enabled: true},
		CircuitBreaker: CircuitBreakerConfig{Enabled: true, MaxFailures: 2},
	}

	rt, err := Build(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(ctx) })

	assert.Equal(t,
		[]string{"store", "cache_entries", "circuit:ssm", "circuit:secretsmanager", "circuit:kms"},
		rt.Health.CheckerNames())
}

func TestBuild_ProbeParameter(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.Health.ProbeParameter = "/health/canary"

	rt, err := Build(ctx, cfg, withFakes(newFakeBackend(nil))...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(ctx) })

	result, err := rt.Health.Check(ctx, "ssm_probe")
	require.NoError(t, err)
	assert.Equal(t, health.StatusHealthy, result.Status)
	assert.Equal(t, "reachable, probe value not found", result.Message)
}

func TestBuild_Invalid(t *testing.T) {
	_, err := Build(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuildExecutor(t *testing.T) {
	exec, cb := buildExecutor("ssm", ResilienceConfig{}, nil)
	assert.Nil(t, exec)
	assert.Nil(t, cb)

	exec, cb = buildExecutor("kms", ResilienceConfig{CircuitBreaker: CircuitBreakerConfig{Enabled: true}}, nil)
	assert.NotNil(t, exec)
	require.NotNil(t, cb)
	assert.Equal(t, "kms", cb.Name())
}

func TestCapacityConfig(t *testing.T) {
	assert.Equal(t, health.CapacityCheckerConfig{}, capacityConfig(0))
	assert.Equal(t, health.CapacityCheckerConfig{WarningEntries: 800, CriticalEntries: 1000}, capacityConfig(1000))
	assert.Equal(t, health.CapacityCheckerConfig{WarningEntries: 1, CriticalEntries: 1}, capacityConfig(1))
}
