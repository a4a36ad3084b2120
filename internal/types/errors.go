// Package types contains the shared domain types and the error taxonomy
// used across the API surface.
package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so the HTTP boundary can map it to a
// status code without inspecting message strings.
type ErrorKind int

// Error kinds, one per failure class the API can surface.
const (
	// KindValidation covers malformed input: unknown fields, bad
	// pagination values, unsupported operators, missing auth parameters.
	KindValidation ErrorKind = iota
	// KindAuth covers missing, invalid or expired tokens and failed
	// credential or OAuth verification.
	KindAuth
	// KindPermission covers authenticated principals lacking access to a
	// model.
	KindPermission
	// KindNotFound covers unknown models and record ids.
	KindNotFound
	// KindInternal covers unexpected collaborator faults.
	KindInternal
)

// Error is the single error type crossing package boundaries. The kind
// decides the HTTP status, the message is the literal body of the error
// envelope.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// NewValidation builds a validation error with a formatted message.
func NewValidation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewAuth builds an authentication error with a formatted message.
func NewAuth(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

// NewPermission builds a permission error with a formatted message.
func NewPermission(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf(format, args...)}
}

// NewNotFound builds a not-found error with a formatted message.
func NewNotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewInternal wraps an unexpected collaborator fault. The cause is kept
// for logging; the message shown to clients is decided at the boundary.
func NewInternal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", cause: cause}
}

// KindOf returns the kind of err if it is (or wraps) a *Error, and
// KindInternal otherwise. Unclassified errors are treated as internal
// faults so nothing leaks through the boundary unmapped.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return is(err, KindValidation) }

// IsAuth reports whether err is an authentication error.
func IsAuth(err error) bool { return is(err, KindAuth) }

// IsPermission reports whether err is a permission error.
func IsPermission(err error) bool { return is(err, KindPermission) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return is(err, KindNotFound) }

func is(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
