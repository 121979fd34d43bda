package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Domain errors
	ErrorTypeNotFound            ErrorType = "NOT_FOUND"
	ErrorTypeDuplicateConnection ErrorType = "DUPLICATE_CONNECTION"
	ErrorTypeDuplicateReference  ErrorType = "DUPLICATE_REFERENCE"
	ErrorTypeInvalidFormat       ErrorType = "INVALID_FORMAT"
	ErrorTypePermissionDenied    ErrorType = "PERMISSION_DENIED"
	ErrorTypeValidation          ErrorType = "VALIDATION"

	// Application errors
	ErrorTypeInternal ErrorType = "INTERNAL"

	// Infrastructure errors
	ErrorTypeStore ErrorType = "STORE"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Constructor functions for common error types

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewDuplicateConnectionError reports an edge that already exists between a
// pair of nodes, in either direction.
func NewDuplicateConnectionError() *AppError {
	return &AppError{
		Type:       ErrorTypeDuplicateConnection,
		Message:    "these nodes are already connected",
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicateReferenceError reports a reference node whose actor is already
// present in the tree.
func NewDuplicateReferenceError(actorID string) *AppError {
	return &AppError{
		Type:       ErrorTypeDuplicateReference,
		Message:    fmt.Sprintf("actor %q is already in this tree", actorID),
		HTTPStatus: http.StatusConflict,
	}
}

// NewInvalidFormatError creates an invalid import format error
func NewInvalidFormatError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidFormat,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewPermissionDeniedError creates a permission denied error
func NewPermissionDeniedError(operation string) *AppError {
	return &AppError{
		Type:       ErrorTypePermissionDenied,
		Message:    fmt.Sprintf("only a privileged user can %s", operation),
		HTTPStatus: http.StatusForbidden,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewStoreError creates a store (persistence) error
func NewStoreError(operation string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeStore,
		Message:    fmt.Sprintf("store operation '%s' failed", operation),
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsDuplicateConnection checks if an error is a duplicate connection error
func IsDuplicateConnection(err error) bool {
	return IsType(err, ErrorTypeDuplicateConnection)
}

// IsDuplicateReference checks if an error is a duplicate reference node error
func IsDuplicateReference(err error) bool {
	return IsType(err, ErrorTypeDuplicateReference)
}

// IsInvalidFormat checks if an error is an invalid format error
func IsInvalidFormat(err error) bool {
	return IsType(err, ErrorTypeInvalidFormat)
}

// IsPermissionDenied checks if an error is a permission denied error
func IsPermissionDenied(err error) bool {
	return IsType(err, ErrorTypePermissionDenied)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsStore checks if an error is a persistence error
func IsStore(err error) bool {
	return IsType(err, ErrorTypeStore)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	// Otherwise create a new internal error
	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
