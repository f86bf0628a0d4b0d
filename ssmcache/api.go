package ssmcache

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// API is the subset of the SSM client used by AWSFetcher.
type API interface {
	GetParameter(
		ctx context.Context,
		params *ssm.GetParameterInput,
		optFns ...func(*ssm.Options),
	) (*ssm.GetParameterOutput, error)

	GetParametersByPath(
		ctx context.Context,
		params *ssm.GetParametersByPathInput,
		optFns ...func(*ssm.Options),
	) (*ssm.GetParametersByPathOutput, error)
}

var _ API = (*ssm.Client)(nil)
