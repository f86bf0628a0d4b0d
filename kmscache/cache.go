package kmscache

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/kms/types"

	"github.com/jonwraymond/awscache/awsclient"
	"github.com/jonwraymond/awscache/cache"
)

// Resource labels telemetry for decrypt calls.
const Resource = "kms"

const msgNoPlaintext = "No value found in CiphertextBlob"

// DecryptRequest decrypts one ciphertext blob.
type DecryptRequest struct {
	CiphertextBlob      []byte
	EncryptionContext   map[string]string
	KeyID               string
	EncryptionAlgorithm types.EncryptionAlgorithmSpec
	GrantTokens         []string
	cache.Overrides
}

// Cache caches KMS decrypt results.
type Cache struct {
	*cache.Client
	fetcher Fetcher
}

// New creates a decrypt cache over fetcher.
func New(cfg cache.Config, fetcher Fetcher, opts ...cache.Option) *Cache {
	return &Cache{
		Client:  cache.NewClient(Resource, cfg, opts...),
		fetcher: fetcher,
	}
}

// NewFromAWS creates a decrypt cache backed by KMS.
func NewFromAWS(cfg cache.Config, s awsclient.Settings, wrap awsclient.Wrapper[API], opts ...cache.Option) *Cache {
	return New(cfg, NewAWSFetcher(s, wrap), opts...)
}

// Decrypt returns the plaintext for req.CiphertextBlob. Entries are keyed by
// the ciphertext only; the encryption context and key id do not take part in
// the default key.
func (c *Cache) Decrypt(ctx context.Context, req DecryptRequest) (string, error) {
	r := c.Resolve(req.Overrides, string(req.CiphertextBlob))
	q := DecryptQuery{
		CiphertextBlob:      req.CiphertextBlob,
		EncryptionContext:   req.EncryptionContext,
		KeyID:               req.KeyID,
		EncryptionAlgorithm: req.EncryptionAlgorithm,
		GrantTokens:         req.GrantTokens,
	}

	return cache.GetAndCache(ctx, c.Client, cache.GetParams[string]{
		CacheKey:            r.CacheKey,
		TTL:                 &r.TTL,
		NoValueFoundMessage: msgNoPlaintext,
		Operation:           "Decrypt",
		Region:              r.Region,
		Fetch: func(ctx context.Context) (string, bool, error) {
			return c.fetcher.Decrypt(ctx, r.Region, q)
		},
	})
}

// DecryptAsJSON decodes the plaintext into v.
func (c *Cache) DecryptAsJSON(ctx context.Context, req DecryptRequest, v any) error {
	plaintext, err := c.Decrypt(ctx, req)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(plaintext), v)
}
