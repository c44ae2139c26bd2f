// Package errors classifies remote-call failures so the persistence executor
// can decide whether a write is worth retrying.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory determines how errors should be handled by retry logic.
type ErrorCategory int

const (
	// Recoverable errors may succeed on a later attempt: 5xx, 408, 429 and
	// network failures.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors fail immediately: other 4xx and undecodable bodies.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ClassifiedError wraps a remote-call failure with its category.
type ClassifiedError struct {
	Category   ErrorCategory
	Operation  string // e.g. "get user", "reconcile history"
	StatusCode int    // 0 for non-HTTP errors
	Body       string // truncated response body for debugging
	Underlying error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] %s: HTTP %d: %v", e.Category, e.Operation, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *ClassifiedError) Unwrap() error {
	return e.Underlying
}

// IsIrrecoverable reports whether err, anywhere in its chain, must not be retried.
func IsIrrecoverable(err error) bool {
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		return ce.Category == Irrecoverable
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}
