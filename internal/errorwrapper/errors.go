package errorwrapper

import (
	"errors"
	"fmt"
)

// Sentinel errors used across the application
var (
	// ErrSourceNotFound indicates a registry operation on an unknown source
	ErrSourceNotFound = errors.New("source not found")
	// ErrInvalidConfiguration indicates configuration issues
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return fmt.Errorf("%s: <nil>", message)
	}
	return fmt.Errorf("%s: %w", message, err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// ValidationError represents validation errors with field-specific information
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// FetchError represents a failed document fetch: either a non-2xx HTTP
// response or a transport-level failure.
type FetchError struct {
	URL        string
	StatusCode int
	Message    string
	Wrapped    error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch error for URL '%s': HTTP %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch error for URL '%s': %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Wrapped
}

// NewFetchError creates a fetch error for a non-2xx HTTP response
func NewFetchError(url string, statusCode int, message string) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewFetchErrorWithCause creates a fetch error for a transport failure
func NewFetchErrorWithCause(url, message string, wrapped error) *FetchError {
	return &FetchError{
		URL:     url,
		Message: message,
		Wrapped: wrapped,
	}
}

// DecompressionError represents a gzip body stream that is missing or invalid
type DecompressionError struct {
	URL     string
	Wrapped error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("decompression error for URL '%s': %v", e.URL, e.Wrapped)
}

func (e *DecompressionError) Unwrap() error {
	return e.Wrapped
}

// NewDecompressionError creates a new decompression error
func NewDecompressionError(url string, wrapped error) *DecompressionError {
	return &DecompressionError{URL: url, Wrapped: wrapped}
}

// StorageError represents a key-value read or write failure
type StorageError struct {
	Key     string
	Op      string
	Wrapped error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s on key '%s': %v", e.Op, e.Key, e.Wrapped)
}

func (e *StorageError) Unwrap() error {
	return e.Wrapped
}

// NewStorageError creates a new storage error
func NewStorageError(op, key string, wrapped error) *StorageError {
	return &StorageError{Key: key, Op: op, Wrapped: wrapped}
}
