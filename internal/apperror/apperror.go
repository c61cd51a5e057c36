// Package apperror defines the error taxonomy shared by every layer.
// Each error carries a kind sentinel for classification and a message
// safe to show to the user; the wrapped cause stays operator-only.
package apperror

import (
	"errors"
	"fmt"
)

// Kind sentinels, checked with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrTransient  = errors.New("transient failure")
	ErrTimeout    = errors.New("timeout")
	ErrOffline    = errors.New("offline")
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage failure")
)

// Error is the concrete error type returned across component boundaries.
type Error struct {
	Kind        error  // one of the sentinels above
	UserMessage string // shown to the user verbatim
	Err         error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

// Is matches against the kind sentinel so callers can classify with
// errors.Is(err, apperror.ErrNotFound) regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a remote entity that does not exist.
func NotFound(resource string) *Error {
	return &Error{
		Kind:        ErrNotFound,
		UserMessage: fmt.Sprintf("%s not found", resource),
	}
}

// Transient reports any non-success response or transport failure that is
// not a 404. The user is told which resource failed, not why.
func Transient(resource string, err error) *Error {
	return &Error{
		Kind:        ErrTransient,
		UserMessage: fmt.Sprintf("failed to fetch %s", resource),
		Err:         err,
	}
}

// Timeout reports an operation that exceeded the network deadline.
func Timeout() *Error {
	return &Error{
		Kind:        ErrTimeout,
		UserMessage: "request timed out, check your connection and try again",
	}
}

// Offline reports that the device has no connectivity; the operation was
// never attempted.
func Offline() *Error {
	return &Error{
		Kind:        ErrOffline,
		UserMessage: "no internet connection",
	}
}

// Validation reports input rejected before any network or storage call.
func Validation(message string) *Error {
	return &Error{
		Kind:        ErrValidation,
		UserMessage: message,
	}
}

// Storage reports a local read or write that failed or affected zero rows.
func Storage(action string, err error) *Error {
	return &Error{
		Kind:        ErrStorage,
		UserMessage: fmt.Sprintf("failed to %s", action),
		Err:         err,
	}
}

// UserMessage extracts the user-facing message from any error, falling
// back to a generic line for errors that did not come through this package.
func UserMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.UserMessage
	}
	return "something went wrong, please try again"
}
