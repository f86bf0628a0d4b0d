package resilience

import (
	"context"
	"errors"

	"github.com/aws/smithy-go"
)

// throttleCodes are AWS error codes that signal the caller is being rate limited.
var throttleCodes = map[string]struct{}{
	"ThrottlingException":                    {},
	"Throttling":                             {},
	"ThrottledException":                     {},
	"TooManyRequestsException":               {},
	"RequestLimitExceeded":                   {},
	"ProvisionedThroughputExceededException": {},
	"RequestThrottledException":              {},
}

// transientCodes are AWS error codes for server side conditions that usually clear.
var transientCodes = map[string]struct{}{
	"InternalServerError":         {},
	"InternalServiceError":        {},
	"InternalFailure":             {},
	"ServiceUnavailable":          {},
	"ServiceUnavailableException": {},
	"KMSInternalException":        {},
	"DependencyTimeoutException":  {},
}

// IsThrottle reports whether err carries an AWS throttling error code.
func IsThrottle(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	_, ok := throttleCodes[apiErr.ErrorCode()]
	return ok
}

// IsRetryable reports whether err is worth another attempt: throttling and
// transient server errors are, context cancellation and client faults are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrTimeout) {
		return true
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()
	if _, ok := throttleCodes[code]; ok {
		return true
	}
	if _, ok := transientCodes[code]; ok {
		return true
	}
	return apiErr.ErrorFault() == smithy.FaultServer
}

// IsBackendFailure reports whether err indicates the backend itself is
// unhealthy. Client faults such as ParameterNotFound or AccessDenied do not
// count, throttling does.
func IsBackendFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorFault() == smithy.FaultClient {
		return IsThrottle(err)
	}
	return true
}
