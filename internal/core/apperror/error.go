// Package apperror provides structured error handling for API responses.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal            = "INTERNAL_ERROR"
	CodeStorage             = "STORAGE_ERROR"
	CodeCorruptedCollection = "CORRUPTED_COLLECTION"
	CodeRemoteRequestFailed = "REMOTE_REQUEST_FAILED"

	// Validation errors (400)
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnknownDocumentType = "UNKNOWN_DOCUMENT_TYPE"

	// Authorization errors (401)
	CodeUnauthorized = "UNAUTHORIZED"

	// Not found (404)
	CodeRouteNotFound = "ROUTE_NOT_FOUND"
)

// AppError is the standard error type for the application.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, keys, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewUnknownDocumentType is returned when a caller names a document type
// outside the fixed enumeration. No storage key is ever derived from it.
func NewUnknownDocumentType(docType string) *AppError {
	return &AppError{
		Code:       CodeUnknownDocumentType,
		Message:    fmt.Sprintf("unknown document type %q", docType),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"type": docType},
	}
}

// NewCorruptedCollection is returned in strict decoding mode when the value
// stored under key cannot be decoded as a collection.
func NewCorruptedCollection(key string, cause error) *AppError {
	return &AppError{
		Code:       CodeCorruptedCollection,
		Message:    "stored collection is corrupted",
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"key": key},
		Err:        cause,
	}
}

// NewRemoteRequestFailed wraps a failed directory data operation.
// The raw cause is rendered to the client as the "error" field.
func NewRemoteRequestFailed(cause error) *AppError {
	return &AppError{
		Code:       CodeRemoteRequestFailed,
		Message:    "remote request failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        cause,
	}
}

// NewRouteNotFound is returned by the navigator for paths outside the route table.
func NewRouteNotFound(path string) *AppError {
	return &AppError{
		Code:       CodeRouteNotFound,
		Message:    "route not found",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"path": path},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewStorage wraps a local storage area failure (500).
func NewStorage(op, key string, err error) *AppError {
	return &AppError{
		Code:       CodeStorage,
		Message:    "storage operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"operation": op, "key": key},
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsUnknownDocumentType checks if error is CodeUnknownDocumentType
func IsUnknownDocumentType(err error) bool {
	return HasCode(err, CodeUnknownDocumentType)
}

// IsCorruptedCollection checks if error is CodeCorruptedCollection
func IsCorruptedCollection(err error) bool {
	return HasCode(err, CodeCorruptedCollection)
}

// IsNotFound checks if error is CodeRouteNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeRouteNotFound)
}
