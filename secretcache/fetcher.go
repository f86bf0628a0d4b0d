package secretcache

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/jonwraymond/awscache/awsclient"
	"github.com/jonwraymond/awscache/resilience"
)

// SecretQuery identifies a secret version.
type SecretQuery struct {
	SecretID     string
	VersionID    string
	VersionStage string
}

// Fetcher retrieves secrets from the remote store.
type Fetcher interface {
	// GetSecretValue returns the secret string. ok is false when the secret
	// has no string value.
	GetSecretValue(ctx context.Context, region string, q SecretQuery) (value string, ok bool, err error)
}

// AWSFetcher implements Fetcher with the Secrets Manager API.
type AWSFetcher struct {
	clients *awsclient.Pool[API]
	exec    *resilience.Executor
}

// NewAWSFetcher creates a fetcher that builds one client per region.
func NewAWSFetcher(s awsclient.Settings, wrap awsclient.Wrapper[API]) *AWSFetcher {
	factory := awsclient.FromConfig(s.Options, func(cfg aws.Config) API {
		return secretsmanager.NewFromConfig(cfg)
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

// GetSecretValue implements Fetcher.
func (f *AWSFetcher) GetSecretValue(ctx context.Context, region string, q SecretQuery) (string, bool, error) {
	client, err := f.clients.Get(ctx, region)
	if err != nil {
		return "", false, err
	}

	in := &secretsmanager.GetSecretValueInput{SecretId: aws.String(q.SecretID)}
	if q.VersionID != "" {
		in.VersionId = aws.String(q.VersionID)
	}
	if q.VersionStage != "" {
		in.VersionStage = aws.String(q.VersionStage)
	}

	out, err := resilience.Run(ctx, f.exec, func(ctx context.Context) (*secretsmanager.GetSecretValueOutput, error) {
		return client.GetSecretValue(ctx, in)
	})
	if err != nil {
		return "", false, err
	}
	if out == nil {
		return "", false, nil
	}

	value := aws.ToString(out.SecretString)
	return value, value != "", nil
}

var _ Fetcher = (*AWSFetcher)(nil)
