package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the tool can surface. The kind is part
// of the machine-readable output contract, so values are stable strings.
type ErrorKind string

const (
	// KindCredentialsMissing means no credential source could supply a pair.
	KindCredentialsMissing ErrorKind = "credentials_missing"
	// KindAuthRejected means the remote API refused the credentials (401/403).
	KindAuthRejected ErrorKind = "auth_rejected"
	// KindValidation covers local pre-flight failures and remote 4xx other
	// than auth.
	KindValidation ErrorKind = "validation_failed"
	// KindRemoteUnavailable covers network failures, timeouts and 5xx.
	KindRemoteUnavailable ErrorKind = "remote_unavailable"
	// KindUserCancelled means the user declined a confirmation prompt.
	KindUserCancelled ErrorKind = "user_cancelled"
)

// Error is a classified failure. Status carries the remote HTTP status when
// the error originated from an API response, zero otherwise.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewError creates a classified error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError classifies an underlying error without losing it.
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the classification from any error. Unclassified errors
// report as remote_unavailable only when nothing better is known; plain
// local errors map to validation_failed since they are user-correctable.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindValidation
}

// StatusOf returns the remote HTTP status attached to err, or zero.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
