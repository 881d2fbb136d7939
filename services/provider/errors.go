package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ProviderError normalizes upstream failures.
type ProviderError struct {
	Op         string
	Status     int // HTTP status, 0 when no response was received
	Message    string
	Underlying error
	Retryable  bool
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("provider %s (status %d): %s: %v", e.Op, e.Status, e.Message, e.Underlying)
	}
	return fmt.Sprintf("provider %s (status %d): %s", e.Op, e.Status, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// NewProviderError classifies a failure. A missing response, a timeout, throttling and any
// 5xx are worth retrying; everything else is not.
func NewProviderError(op string, status int, message string, underlying error) *ProviderError {
	retryable := status == 0 ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
	if errors.Is(underlying, context.Canceled) {
		retryable = false
	}
	return &ProviderError{
		Op:         op,
		Status:     status,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}
