package secretcache

import (
	"context"
	"encoding/json"

	"github.com/jonwraymond/awscache/awsclient"
	"github.com/jonwraymond/awscache/cache"
)

// Resource labels telemetry for secret lookups.
const Resource = "secretsmanager"

const msgNoSecret = "No value found for secret"

// GetSecretRequest reads one secret. VersionID and VersionStage are optional.
type GetSecretRequest struct {
	SecretID     string
	VersionID    string
	VersionStage string
	cache.Overrides
}

// Cache caches Secrets Manager reads.
type Cache struct {
	*cache.Client
	fetcher Fetcher
}

// New creates a secret cache over fetcher.
func New(cfg cache.Config, fetcher Fetcher, opts ...cache.Option) *Cache {
	return &Cache{
		Client:  cache.NewClient(Resource, cfg, opts...),
		fetcher: fetcher,
	}
}

// NewFromAWS creates a secret cache backed by Secrets Manager.
func NewFromAWS(cfg cache.Config, s awsclient.Settings, wrap awsclient.Wrapper[API], opts ...cache.Option) *Cache {
	return New(cfg, NewAWSFetcher(s, wrap), opts...)
}

// GetSecretAsString returns the secret string. The cache key defaults to
// SecretID, so different versions of one secret share an entry unless a
// cache key is given.
func (c *Cache) GetSecretAsString(ctx context.Context, req GetSecretRequest) (string, error) {
	r := c.Resolve(req.Overrides, req.SecretID)
	q := SecretQuery{
		SecretID:     req.SecretID,
		VersionID:    req.VersionID,
		VersionStage: req.VersionStage,
	}

	return cache.GetAndCache(ctx, c.Client, cache.GetParams[string]{
		CacheKey:            r.CacheKey,
		TTL:                 &r.TTL,
		NoValueFoundMessage: msgNoSecret,
		Operation:           "GetSecretValue",
		Region:              r.Region,
		Fetch: func(ctx context.Context) (string, bool, error) {
			return c.fetcher.GetSecretValue(ctx, r.Region, q)
		},
	})
}

// GetSecretAsJSON decodes the secret string into v.
func (c *Cache) GetSecretAsJSON(ctx context.Context, req GetSecretRequest, v any) error {
	value, err := c.GetSecretAsString(ctx, req)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(value), v)
}
