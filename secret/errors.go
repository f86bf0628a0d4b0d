package secret

import "errors"

var (
	// ErrProviderNotRegistered is returned for a reference to an unknown provider.
	ErrProviderNotRegistered = errors.New("secret: provider not registered")

	// ErrInvalidRef is returned when a reference is malformed.
	ErrInvalidRef = errors.New("secret: invalid reference")

	// ErrEmptyValue is returned by a strict resolver when a provider yields "".
	ErrEmptyValue = errors.New("secret: provider returned empty value")

	// ErrSourceUnavailable is returned by a provider factory whose backing
	// cache was not supplied.
	ErrSourceUnavailable = errors.New("secret: source unavailable")

	// ErrMissingEnv is returned when ${VAR} names an unset variable.
	ErrMissingEnv = errors.New("secret: missing required environment variables")
)
