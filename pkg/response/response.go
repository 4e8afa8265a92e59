package response

import (
	"errors"
)

type Kind string

const (
	KindValidation    Kind = "ValidationError"
	KindAuthorization Kind = "AuthorizationError"
	KindConfiguration Kind = "ConfigurationError"
	KindUpstream      Kind = "UpstreamError"
	KindNotFound      Kind = "NotFoundError"
	KindInternal      Kind = "InternalError"
	KindRateLimit     Kind = "RateLimitError"
)

// Error is a failure that already knows how it should be presented to the
// client. Err carries the client-facing message; cause keeps the underlying
// error for logs only.
type Error struct {
	Code    int
	Kind    Kind
	Err     error
	Details map[string]string
	cause   error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(kind Kind, code int, err string) error {
	return &Error{Code: code, Kind: kind, Err: errors.New(err)}
}

// Wrap attaches cause to a copy of the sentinel so errors.Is still matches it.
func Wrap(sentinel error, cause error) error {
	var s *Error
	if !errors.As(sentinel, &s) {
		return sentinel
	}
	return &Error{
		Code:    s.Code,
		Kind:    s.Kind,
		Err:     s.Err,
		Details: s.Details,
		cause:   cause,
	}
}

func WithDetails(sentinel error, message string, details map[string]string) error {
	var s *Error
	if !errors.As(sentinel, &s) {
		return sentinel
	}
	return &Error{
		Code:    s.Code,
		Kind:    s.Kind,
		Err:     errors.New(message),
		Details: details,
		cause:   sentinel,
	}
}
