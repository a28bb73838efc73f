package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so handlers can map it to an HTTP status without
// string matching.
type Kind int

const (
	// KindInternal is the default for unexpected persistence or I/O failures.
	KindInternal Kind = iota
	// KindNotFound covers lookups for records that do not exist.
	KindNotFound
	// KindInvalidState covers requests that conflict with current state, e.g.
	// redeeming with an active redemption outstanding.
	KindInvalidState
	// KindValidation covers malformed client input.
	KindValidation
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound creates a not-found error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidState creates an invalid-state error.
func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsInvalidState reports whether err is an invalid-state error.
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
