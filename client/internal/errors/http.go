package errors

import (
	"fmt"
	"net/http"
)

const maxBodyInError = 512

// ClassifyHTTPStatus maps an HTTP status to a retry category.
func ClassifyHTTPStatus(statusCode int) ErrorCategory {
	switch {
	case statusCode == http.StatusRequestTimeout, statusCode == http.StatusTooManyRequests:
		return Recoverable
	case statusCode >= 400 && statusCode < 500:
		return Irrecoverable
	default:
		return Recoverable
	}
}

// NewHTTPError creates a classified error for a non-2xx response.
func NewHTTPError(operation string, statusCode int, body string) *ClassifiedError {
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError]
	}
	return &ClassifiedError{
		Category:   ClassifyHTTPStatus(statusCode),
		Operation:  operation,
		StatusCode: statusCode,
		Body:       body,
		Underlying: fmt.Errorf("unexpected status %d", statusCode),
	}
}

// NewNetworkError creates a classified error for a failed round trip.
func NewNetworkError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Operation:  operation,
		Underlying: fmt.Errorf("network error: %w", err),
	}
}

// NewDecodeError creates a classified error for a malformed response body.
// Retrying cannot fix a shape mismatch, so it is irrecoverable.
func NewDecodeError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Irrecoverable,
		Operation:  operation,
		Underlying: fmt.Errorf("decode response: %w", err),
	}
}
