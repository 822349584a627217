package service

import (
	"errors"
	"fmt"
)

// Sentinel kinds for pipeline errors.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotConfigured = errors.New("provider not configured")
	ErrUpstream      = errors.New("upstream failure")
	ErrNotStarted    = errors.New("service not started")
)

// Error is a pipeline failure with the message clients see.
// errors.Is matches Kind; errors.Unwrap returns the cause.
type Error struct {
	Op      string
	Kind    error
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalid(op, message string) *Error {
	return &Error{Op: op, Kind: ErrInvalidInput, Message: message}
}

func notConfigured(op, message string) *Error {
	return &Error{Op: op, Kind: ErrNotConfigured, Message: message}
}

// upstreamErr wraps cause. withDetail exposes the cause's text to clients.
func upstreamErr(op, message string, cause error, withDetail bool) *Error {
	e := &Error{Op: op, Kind: ErrUpstream, Message: message, Err: cause}
	if withDetail && cause != nil {
		e.Detail = cause.Error()
	}
	return e
}
