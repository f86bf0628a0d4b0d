package kmscache

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/kms"
)

// API is the subset of the KMS client used by AWSFetcher.
type API interface {
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

var _ API = (*kms.Client)(nil)
