package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// StaticCredentials are fixed AWS credentials, used instead of the default chain.
type StaticCredentials struct {
	AccessKeyID     string `yaml:"access_key_id" validate:"required"`
	SecretAccessKey string `yaml:"secret_access_key" validate:"required"`
	SessionToken    string `yaml:"session_token"`
}

// Options configure how SDK clients are built.
type Options struct {
	// Profile selects a shared config profile.
	Profile string `yaml:"profile"`
	// EndpointURL overrides the service endpoint, e.g. http://localhost:4566.
	EndpointURL string `yaml:"endpoint_url" validate:"omitempty,url"`
	// MaxAttempts sets the SDK retryer attempts. 0 keeps the SDK default.
	MaxAttempts int `yaml:"max_attempts" validate:"gte=0"`
	// Credentials replaces the default credential chain when set.
	Credentials *StaticCredentials `yaml:"credentials"`
}

// LoadConfig loads an aws.Config for region.
func LoadConfig(ctx context.Context, region string, opts Options) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.EndpointURL != "" {
		loadOpts = append(loadOpts, config.WithBaseEndpoint(opts.EndpointURL))
	}
	if opts.MaxAttempts > 0 {
		loadOpts = append(loadOpts, config.WithRetryMaxAttempts(opts.MaxAttempts))
	}
	if c := opts.Credentials; c != nil {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, c.SessionToken),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("awsclient: failed to load AWS config for %q: %w", region, err)
	}
	return cfg, nil
}
