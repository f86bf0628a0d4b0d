package ssmcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/awscache/awsclient"
	"github.com/jonwraymond/awscache/resilience"
)

// mockAPI implements API with overridable funcs.
type mockAPI struct {
	GetParameterFunc        func(ctx context.Context, in *ssm.GetParameterInput) (*ssm.GetParameterOutput, error)
	GetParametersByPathFunc func(ctx context.Context, in *ssm.GetParametersByPathInput) (*ssm.GetParametersByPathOutput, error)
}

func (m *mockAPI) GetParameter(ctx context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	return m.GetParameterFunc(ctx, in)
}

func (m *mockAPI) GetParametersByPath(ctx context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	return m.GetParametersByPathFunc(ctx, in)
}

func TestAWSFetcher_GetParameter(t *testing.T) {
	tests := []struct {
		name    string
		output  *ssm.GetParameterOutput
		err     error
		want    string
		wantOK  bool
		wantErr bool
	}{
		{
			name:   "value",
			output: &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String("v")}},
			want:   "v", wantOK: true,
		},
		{
			name:   "empty value is absent",
			output: &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String("")}},
		},
		{
			name:   "missing parameter is absent",
			output: &ssm.GetParameterOutput{},
		},
		{
			name:    "api error",
			err:     &smithy.GenericAPIError{Code: "ParameterNotFound"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *ssm.GetParameterInput
			api := &mockAPI{GetParameterFunc: func(_ context.Context, in *ssm.GetParameterInput) (*ssm.GetParameterOutput, error) {
				got = in
				return tt.output, tt.err
			}}
			f := NewAWSFetcherWithFactory(awsclient.Static[API](api), nil, nil)

			v, ok, err := f.GetParameter(context.Background(), "eu-west-1", "/app/key")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.wantOK, ok)

			assert.Equal(t, "/app/key", aws.ToString(got.Name))
			assert.True(t, aws.ToBool(got.WithDecryption))
		})
	}
}

func TestAWSFetcher_GetParametersByPath(t *testing.T) {
	var got *ssm.GetParametersByPathInput
	api := &mockAPI{GetParametersByPathFunc: func(_ context.Context, in *ssm.GetParametersByPathInput) (*ssm.GetParametersByPathOutput, error) {
		got = in
		return &ssm.GetParametersByPathOutput{
			Parameters: []types.Parameter{
				{Name: aws.String("/app/a"), Value: aws.String("1")},
				{Name: aws.String("/app/b"), Value: aws.String("2")},
			},
			NextToken: aws.String("next"),
		}, nil
	}}
	f := NewAWSFetcherWithFactory(awsclient.Static[API](api), nil, nil)

	filters := []types.ParameterStringFilter{{Key: aws.String("Type"), Values: []string{"SecureString"}}}
	page, err := f.GetParametersByPath(context.Background(), "eu-west-1", PathQuery{
		Path:             "/app",
		NextToken:        "prev",
		MaxResults:       2,
		Recursive:        true,
		ParameterFilters: filters,
	})
	require.NoError(t, err)

	assert.Equal(t, &Page{
		Parameters: []Parameter{{Name: "/app/a", Value: "1"}, {Name: "/app/b", Value: "2"}},
		NextToken:  "next",
	}, page)

	assert.Equal(t, "/app", aws.ToString(got.Path))
	assert.Equal(t, "prev", aws.ToString(got.NextToken))
	assert.Equal(t, int32(2), aws.ToInt32(got.MaxResults))
	assert.True(t, aws.ToBool(got.Recursive))
	assert.True(t, aws.ToBool(got.WithDecryption))
	assert.Equal(t, filters, got.ParameterFilters)
}

func TestAWSFetcher_GetParametersByPath_FirstPageOmitsToken(t *testing.T) {
	var got *ssm.GetParametersByPathInput
	api := &mockAPI{GetParametersByPathFunc: func(_ context.Context, in *ssm.GetParametersByPathInput) (*ssm.GetParametersByPathOutput, error) {
		got = in
		return &ssm.GetParametersByPathOutput{}, nil
	}}
	f := NewAWSFetcherWithFactory(awsclient.Static[API](api), nil, nil)

	page, err := f.GetParametersByPath(context.Background(), "eu-west-1", PathQuery{Path: "/app"})
	require.NoError(t, err)
	assert.Empty(t, page.NextToken)
	assert.Nil(t, got.NextToken)
	assert.Nil(t, got.MaxResults)
}

func TestAWSFetcher_WrapperAndRegions(t *testing.T) {
	regions := map[string]int{}
	wrapped := 0
	factory := func(_ context.Context, region string) (API, error) {
		regions[region]++
		return &mockAPI{GetParameterFunc: func(context.Context, *ssm.GetParameterInput) (*ssm.GetParameterOutput, error) {
			return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(region)}}, nil
		}}, nil
	}
	f := NewAWSFetcherWithFactory(factory, func(a API) API {
		wrapped++
		return a
	}, nil)
	ctx := context.Background()

	for _, region := range []string{"eu-west-1", "eu-west-1", "us-east-1"} {
		v, _, err := f.GetParameter(ctx, region, "x")
		require.NoError(t, err)
		assert.Equal(t, region, v)
	}

	assert.Equal(t, map[string]int{"eu-west-1": 1, "us-east-1": 1}, regions)
	assert.Equal(t, 2, wrapped)
}

func TestAWSFetcher_RetriesThrottling(t *testing.T) {
	calls := 0
	api := &mockAPI{GetParameterFunc: func(context.Context, *ssm.GetParameterInput) (*ssm.GetParameterOutput, error) {
		calls++
		if calls < 3 {
			return nil, &smithy.GenericAPIError{Code: "ThrottlingException", Fault: smithy.FaultClient}
		}
		return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String("v")}}, nil
	}}
	exec := resilience.NewExecutor(resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
	})))
	f := NewAWSFetcherWithFactory(awsclient.Static[API](api), nil, exec)

	v, ok, err := f.GetParameter(context.Background(), "eu-west-1", "x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, 3, calls)
}

func TestAWSFetcher_FactoryError(t *testing.T) {
	wantErr := errors.New("no credentials")
	f := NewAWSFetcherWithFactory(func(context.Context, string) (API, error) {
		return nil, wantErr
	}, nil, nil)

	_, _, err := f.GetParameter(context.Background(), "eu-west-1", "x")
	assert.ErrorIs(t, err, wantErr)

	_, err = f.GetParametersByPath(context.Background(), "eu-west-1", PathQuery{Path: "/p"})
	assert.ErrorIs(t, err, wantErr)
}

func TestNewFromAWS(t *testing.T) {
	c := NewFromAWS(cacheConfig("eu-west-1"), awsclient.Settings{}, nil)
	assert.Equal(t, "eu-west-1", c.Region())
}
