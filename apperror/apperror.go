package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies failures so the HTTP layer can pick a status code.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidationFailure
	KindUpstreamFailure
	KindDataUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidationFailure:
		return "VALIDATION_FAILURE"
	case KindUpstreamFailure:
		return "UPSTREAM_FAILURE"
	case KindDataUnavailable:
		return "DATA_UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// Error carries a Kind, a caller-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidationFailure, Message: fmt.Sprintf(format, args...)}
}

func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstreamFailure, Message: message, Err: err}
}

func DataUnavailable(message string, err error) *Error {
	return &Error{Kind: KindDataUnavailable, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
