// Package errors defines the structured error type shared by the retrieval
// core. Codes separate query failures from index-lifecycle failures so the
// caller can report them differently.
package errors

import (
	stderrors "errors"
	"fmt"
)

// SearchError is the structured error type for the retrieval core.
type SearchError struct {
	// Code is the unique error code (e.g. "ERR_201_SEARCH_UNAVAILABLE").
	Code string

	// Message is safe to show to users. Internal detail stays in Cause.
	Message string

	// Category is derived from the code.
	Category Category

	// Cause is the underlying error, logged but never surfaced verbatim.
	Cause error

	// Retryable indicates the operation may succeed on retry.
	Retryable bool
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SearchError) Unwrap() error {
	return e.Cause
}

// Is matches SearchErrors by code so errors.Is works across wrap layers.
func (e *SearchError) Is(target error) bool {
	if t, ok := target.(*SearchError); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a SearchError with category and retryability derived from code.
func New(code, message string, cause error) *SearchError {
	return &SearchError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a SearchError from an existing error. Returns nil for nil.
func Wrap(code string, err error) *SearchError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// CodeOf returns the code of err if it is (or wraps) a SearchError.
func CodeOf(err error) string {
	var se *SearchError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsRetryable reports whether err is a retryable SearchError.
func IsRetryable(err error) bool {
	var se *SearchError
	if stderrors.As(err, &se) {
		return se.Retryable
	}
	return false
}
