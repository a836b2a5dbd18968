package domain

import (
	"errors"
	"fmt"
)

// ValidationError is returned for malformed input (empty or oversized dish
// name, servings out of range, batch size exceeded). Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}

// NewValidationError builds a ValidationError with a human-readable reason.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// NotFoundError is returned when no candidate with usable calorie data
// exists for a query.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no nutrition data found for %q", e.Query)
}

// ProviderErrorKind classifies an upstream failure by its cause.
type ProviderErrorKind int

const (
	ProviderErrorUnknown ProviderErrorKind = iota
	ProviderErrorUnauthorized
	ProviderErrorForbidden
	ProviderErrorRateLimited
	ProviderErrorUnavailable
)

func (k ProviderErrorKind) String() string {
	switch k {
	case ProviderErrorUnauthorized:
		return "unauthorized"
	case ProviderErrorForbidden:
		return "forbidden"
	case ProviderErrorRateLimited:
		return "rate_limited"
	case ProviderErrorUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// UserMessage is the stable user-facing message for this kind of failure.
// The original upstream detail is logged, never surfaced.
func (k ProviderErrorKind) UserMessage() string {
	switch k {
	case ProviderErrorUnauthorized:
		return "nutrition service credentials are invalid"
	case ProviderErrorForbidden:
		return "nutrition service refused the request"
	case ProviderErrorRateLimited:
		return "nutrition service is busy, try again later"
	case ProviderErrorUnavailable:
		return "nutrition service is temporarily unavailable"
	default:
		return "nutrition service request failed"
	}
}

// ProviderError wraps an upstream failure with its classification and the
// operation that triggered it.
type ProviderError struct {
	Kind ProviderErrorKind
	Op   string
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s failed (%s): %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("provider %s failed (%s)", e.Op, e.Kind)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ProviderKindFromStatus maps an upstream HTTP status code to an error kind.
func ProviderKindFromStatus(status int) ProviderErrorKind {
	switch {
	case status == 401:
		return ProviderErrorUnauthorized
	case status == 403:
		return ProviderErrorForbidden
	case status == 429:
		return ProviderErrorRateLimited
	case status >= 500:
		return ProviderErrorUnavailable
	default:
		return ProviderErrorUnknown
	}
}

// AsValidationError reports whether err is (or wraps) a ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// AsNotFoundError reports whether err is (or wraps) a NotFoundError.
func AsNotFoundError(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	ok := errors.As(err, &nf)
	return nf, ok
}

// AsProviderError reports whether err is (or wraps) a ProviderError.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	ok := errors.As(err, &pe)
	return pe, ok
}
