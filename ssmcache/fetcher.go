package ssmcache

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/jonwraymond/awscache/awsclient"
	"github.com/jonwraymond/awscache/resilience"
)

// Fetcher retrieves parameters from the remote store.
type Fetcher interface {
	// GetParameter returns the decrypted value of name. ok is false when the
	// parameter has no value.
	GetParameter(ctx context.Context, region, name string) (value string, ok bool, err error)

	// GetParametersByPath returns one page of the listing described by q.
	GetParametersByPath(ctx context.Context, region string, q PathQuery) (*Page, error)
}

// AWSFetcher implements Fetcher with the SSM API.
type AWSFetcher struct {
	clients *awsclient.Pool[API]
	exec    *resilience.Executor
}

// NewAWSFetcher creates a fetcher that builds one SSM client per region.
func NewAWSFetcher(s awsclient.Settings, wrap awsclient.Wrapper[API]) *AWSFetcher {
	factory := awsclient.FromConfig(s.Options, func(cfg aws.Config) API {
		return ssm.NewFromConfig(cfg)
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

// GetParameter implements Fetcher.
func (f *AWSFetcher) GetParameter(ctx context.Context, region, name string) (string, bool, error) {
	client, err := f.clients.Get(ctx, region)
	if err != nil {
		return "", false, err
	}

	out, err := resilience.Run(ctx, f.exec, func(ctx context.Context) (*ssm.GetParameterOutput, error) {
		return client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(name),
			WithDecryption: aws.Bool(true),
		})
	})
	if err != nil {
		return "", false, err
	}
	if out == nil || out.Parameter == nil {
		return "", false, nil
	}

	value := aws.ToString(out.Parameter.Value)
	return value, value != "", nil
}

// GetParametersByPath implements Fetcher.
func (f *AWSFetcher) GetParametersByPath(ctx context.Context, region string, q PathQuery) (*Page, error) {
	client, err := f.clients.Get(ctx, region)
	if err != nil {
		return nil, err
	}

	in := &ssm.GetParametersByPathInput{
		Path:             aws.String(q.Path),
		Recursive:        aws.Bool(q.Recursive),
		WithDecryption:   aws.Bool(true),
		ParameterFilters: q.ParameterFilters,
	}
	if q.NextToken != "" {
		in.NextToken = aws.String(q.NextToken)
	}
	if q.MaxResults > 0 {
		in.MaxResults = aws.Int32(q.MaxResults)
	}

	out, err := resilience.Run(ctx, f.exec, func(ctx context.Context) (*ssm.GetParametersByPathOutput, error) {
		return client.GetParametersByPath(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}

	page := &Page{
		Parameters: make([]Parameter, 0, len(out.Parameters)),
		NextToken:  aws.ToString(out.NextToken),
	}
	for _, p := range out.Parameters {
		page.Parameters = append(page.Parameters, Parameter{
			Name:  aws.ToString(p.Name),
			Value: aws.ToString(p.Value),
		})
	}
	return page, nil
}

var _ Fetcher = (*AWSFetcher)(nil)
