package errors

import (
	"errors"
	"fmt"
)

// ErrEmptyStore is the sentinel matched by errors.Is for an empty task store.
var ErrEmptyStore = &AppError{Type: ErrorTypeEmptyStore, Message: "no tasks available", Code: "EMPTY_STORE"}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewStorageError creates a new storage error
func NewStorageError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: fmt.Sprintf("storage operation failed: %s", operation),
		Code:    "STORAGE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewParseError creates an error for a malformed record in the backing file.
// Line numbers start at 1; zero means the whole document.
func NewParseError(source string, line int, reason string) *AppError {
	message := fmt.Sprintf("malformed record in %s: %s", source, reason)
	if line > 0 {
		message = fmt.Sprintf("malformed record in %s line %d: %s", source, line, reason)
	}
	return &AppError{
		Type:    ErrorTypeParse,
		Message: message,
		Code:    "PARSE_ERROR",
		Context: map[string]interface{}{
			"source": source,
			"line":   line,
			"reason": reason,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    "TIMEOUT",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewPermissionError creates a new permission error
func NewPermissionError(operation string, resource string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypePermission,
		Message: fmt.Sprintf("permission denied for %s on %s", operation, resource),
		Code:    "PERMISSION_DENIED",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
			"resource":  resource,
		},
	}
}

// NewEmptyStoreError signals that an operation needs tasks but none exist.
func NewEmptyStoreError(operation string) *AppError {
	return &AppError{
		Type:    ErrorTypeEmptyStore,
		Message: "no tasks available",
		Code:    "EMPTY_STORE",
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return IsErrorType(err, ErrorTypeValidation)
}

// IsParse reports whether err is a parse error.
func IsParse(err error) bool {
	return IsErrorType(err, ErrorTypeParse)
}

// IsEmptyStore reports whether err signals an empty store.
func IsEmptyStore(err error) bool {
	return IsErrorType(err, ErrorTypeEmptyStore)
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation:
			if appErr.Cause != nil {
				if friendly, ok := appErr.Cause.(interface{ GetUserFriendlyMessage() string }); ok {
					return friendly.GetUserFriendlyMessage()
				}
			}
			return appErr.Message
		case ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypePermission, ErrorTypeParse:
			return appErr.Message
		case ErrorTypeEmptyStore:
			return "No tasks available."
		case ErrorTypeStorage:
			return "A storage error occurred. Please try again."
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypeEmptyStore:
			return false // These are user errors, not system errors
		case ErrorTypeStorage, ErrorTypeTimeout, ErrorTypePermission, ErrorTypeParse:
			return true
		default:
			return true
		}
	}
	return true // Unknown errors should be logged
}
