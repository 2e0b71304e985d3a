package faults

import (
	"errors"
	"fmt"
)

type ErrorCategory string

const (
	ValidationError ErrorCategory = "ValidationError"
	NotFoundError   ErrorCategory = "NotFoundError"
	ConflictError   ErrorCategory = "ConflictError"
	AuthError       ErrorCategory = "AuthError"
	TransportError  ErrorCategory = "TransportError"
	InternalError   ErrorCategory = "InternalError"
)

// TypedError carries a category so callers and the CLI can branch on the
// failure class without matching message text.
type TypedError struct {
	Category   ErrorCategory
	Message    string
	StatusCode int
	Cause      error
}

func (e *TypedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Category)
}

func (e *TypedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewTypedError(category ErrorCategory, message string, cause error) *TypedError {
	return &TypedError{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}

// NewStatusError records the HTTP status that produced the failure.
func NewStatusError(category ErrorCategory, statusCode int, message string) *TypedError {
	return &TypedError{
		Category:   category,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Errorf builds an uncaused TypedError with a formatted message.
func Errorf(category ErrorCategory, format string, args ...any) *TypedError {
	return NewTypedError(category, fmt.Sprintf(format, args...), nil)
}

func IsCategory(err error, category ErrorCategory) bool {
	if err == nil {
		return false
	}

	var typedErr *TypedError
	if !errors.As(err, &typedErr) {
		return false
	}
	return typedErr.Category == category
}

// CategoryOf returns the category of the first typed error in the chain, or
// an empty category when err carries none.
func CategoryOf(err error) ErrorCategory {
	var typedErr *TypedError
	if !errors.As(err, &typedErr) {
		return ""
	}
	return typedErr.Category
}

// StatusCodeOf returns the HTTP status recorded on the error chain, or zero.
func StatusCodeOf(err error) int {
	var typedErr *TypedError
	if !errors.As(err, &typedErr) {
		return 0
	}
	return typedErr.StatusCode
}
