package secret

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/jonwraymond/awscache/kmscache"
	"github.com/jonwraymond/awscache/secretcache"
	"github.com/jonwraymond/awscache/ssmcache"
)

// Sources are the caches providers read through. Nil fields disable the
// matching provider.
type Sources struct {
	SSM     *ssmcache.Cache
	Secrets *secretcache.Cache
	KMS     *kmscache.Cache
}

// ParameterProvider resolves parameter names.
type ParameterProvider struct {
	cache *ssmcache.Cache
}

// NewParameterProvider creates a provider over c.
func NewParameterProvider(c *ssmcache.Cache) *ParameterProvider {
	return &ParameterProvider{cache: c}
}

// Name implements Provider.
func (p *ParameterProvider) Name() string { return ssmcache.Resource }

// Resolve returns the decrypted value of the parameter named ref.
func (p *ParameterProvider) Resolve(ctx context.Context, ref string) (string, error) {
	return p.cache.GetParameter(ctx, ssmcache.GetParameterRequest{Name: ref})
}

// Close implements Provider. The cache is owned by the caller.
func (p *ParameterProvider) Close() error { return nil }

// SecretProvider resolves Secrets Manager identifiers. A "#field" suffix
// selects one top-level field of a JSON secret.
type SecretProvider struct {
	cache *secretcache.Cache
}

// NewSecretProvider creates a provider over c.
func NewSecretProvider(c *secretcache.Cache) *SecretProvider {
	return &SecretProvider{cache: c}
}

// Name implements Provider.
func (p *SecretProvider) Name() string { return secretcache.Resource }

// Resolve returns the secret string, or one field of it.
func (p *SecretProvider) Resolve(ctx context.Context, ref string) (string, error) {
	id, field, hasField := strings.Cut(ref, "#")
	if id == "" || (hasField && field == "") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}

	req := secretcache.GetSecretRequest{SecretID: id}
	if !hasField {
		return p.cache.GetSecretAsString(ctx, req)
	}

	var doc map[string]any
	if err := p.cache.GetSecretAsJSON(ctx, req, &doc); err != nil {
		return "", err
	}
	v, ok := doc[field]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: secret %q has no field %q", ErrInvalidRef, id, field)
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

// Close implements Provider. The cache is owned by the caller.
func (p *SecretProvider) Close() error { return nil }

// DecryptProvider resolves base64-encoded KMS ciphertext.
type DecryptProvider struct {
	cache *kmscache.Cache
}

// NewDecryptProvider creates a provider over c.
func NewDecryptProvider(c *kmscache.Cache) *DecryptProvider {
	return &DecryptProvider{cache: c}
}

// Name implements Provider.
func (p *DecryptProvider) Name() string { return kmscache.Resource }

// Resolve decodes ref and returns its plaintext.
func (p *DecryptProvider) Resolve(ctx context.Context, ref string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(ref)
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext is not base64: %w", ErrInvalidRef, err)
	}
	return p.cache.Decrypt(ctx, kmscache.DecryptRequest{CiphertextBlob: blob})
}

// Close implements Provider. The cache is owned by the caller.
func (p *DecryptProvider) Close() error { return nil }

func registerBuiltins(r *Registry) {
	_ = r.Register(ssmcache.Resource, func(src Sources) (Provider, error) {
		if src.SSM == nil {
			return nil, ErrSourceUnavailable
		}
		return NewParameterProvider(src.SSM), nil
	})
	_ = r.Register(secretcache.Resource, func(src Sources) (Provider, error) {
		if src.Secrets == nil {
			return nil, ErrSourceUnavailable
		}
		return NewSecretProvider(src.Secrets), nil
	})
	_ = r.Register(kmscache.Resource, func(src Sources) (Provider, error) {
		if src.KMS == nil {
			return nil, ErrSourceUnavailable
		}
		return NewDecryptProvider(src.KMS), nil
	})
}

var (
	_ Provider = (*ParameterProvider)(nil)
	_ Provider = (*SecretProvider)(nil)
	_ Provider = (*DecryptProvider)(nil)
)
