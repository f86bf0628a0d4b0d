package kmscache

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"

	"github.com/jonwraymond/awscache/awsclient"
	"github.com/jonwraymond/awscache/resilience"
)

// DecryptQuery is the input to a decrypt call.
type DecryptQuery struct {
	CiphertextBlob      []byte
	EncryptionContext   map[string]string
	KeyID               string
	EncryptionAlgorithm types.EncryptionAlgorithmSpec
	GrantTokens         []string
}

// Fetcher decrypts ciphertext.
type Fetcher interface {
	// Decrypt returns the plaintext as a string. ok is false when the
	// plaintext is empty.
	Decrypt(ctx context.Context, region string, q DecryptQuery) (plaintext string, ok bool, err error)
}

// AWSFetcher implements Fetcher with the KMS API.
type AWSFetcher struct {
	clients *awsclient.Pool[API]
	exec    *resilience.Executor
}

// NewAWSFetcher creates a fetcher that builds one client per region.
func NewAWSFetcher(s awsclient.Settings, wrap awsclient.Wrapper[API]) *AWSFetcher {
	factory := awsclient.FromConfig(s.Options, func(cfg aws.Config) API {
		return kms.NewFromConfig(cfg)
	})
	return NewAWSFetcherWithFactory(factory, wrap, s.Executor)
}

// NewAWSFetcherWithFactory creates a fetcher over clients produced by factory.
func NewAWSFetcherWithFactory(factory awsclient.Factory[API], wrap awsclient.Wrapper[API], exec *resilience.Executor) *AWSFetcher {
	return &AWSFetcher{
		clients: awsclient.NewPool(factory, wrap),
		exec:    exec,
	}
}

// Decrypt implements Fetcher.
func (f *AWSFetcher) Decrypt(ctx context.Context, region string, q DecryptQuery) (string, bool, error) {
	client, err := f.clients.Get(ctx, region)
	if err != nil {
		return "", false, err
	}

	in := &kms.DecryptInput{
		CiphertextBlob:      q.CiphertextBlob,
		EncryptionContext:   q.EncryptionContext,
		EncryptionAlgorithm: q.EncryptionAlgorithm,
		GrantTokens:         q.GrantTokens,
	}
	if q.KeyID != "" {
		in.KeyId = aws.String(q.KeyID)
	}

	out, err := resilience.Run(ctx, f.exec, func(ctx context.Context) (*kms.DecryptOutput, error) {
		return client.Decrypt(ctx, in)
	})
	if err != nil {
		return "", false, err
	}
	if out == nil || len(out.Plaintext) == 0 {
		return "", false, nil
	}
	return string(out.Plaintext), true, nil
}

var _ Fetcher = (*AWSFetcher)(nil)
