package dto

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a prediction-path or ledger failure.
type ErrorKind string

const (
	ErrEmptyInput             ErrorKind = "empty_input"
	ErrInvalidImage           ErrorKind = "invalid_image"
	ErrGatewayUnavailable     ErrorKind = "gateway_unavailable"
	ErrGatewayTimeout         ErrorKind = "gateway_timeout"
	ErrGatewayError           ErrorKind = "gateway_error"
	ErrModelOutputUnparseable ErrorKind = "model_output_unparseable"
	ErrMissingConfidence      ErrorKind = "missing_or_invalid_confidence"
	ErrInvalidOutcome         ErrorKind = "invalid_outcome"
	ErrUnauthorized           ErrorKind = "unauthorized"
)

// Error is a tagged error. Domain outcomes (unparseable output, invalid
// outcome) and transport failures (gateway timeout, remote failure) carry
// different kinds so callers can apply different retry policy to each.
type Error struct {
	Kind    ErrorKind
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

// Transient reports whether the failure is a transport problem that a caller
// may reasonably retry, as opposed to a domain outcome that will not change.
func (e *Error) Transient() bool {
	return e.Kind == ErrGatewayTimeout || e.Kind == ErrGatewayError
}

// NewError creates a tagged error with no underlying cause.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates a tagged error wrapping an underlying cause.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the ErrorKind from err, or "" if err carries none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf extracts the short human-readable message from err. Untagged
// errors map to a generic message so internals never leak to callers.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// IsTransient reports whether err is a tagged transport failure.
func IsTransient(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Transient()
}
