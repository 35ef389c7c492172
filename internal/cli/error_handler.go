package cli

import (
	"fmt"

	"github.com/charmbracelet/log"

	"task-tracker/internal/errors"
	"task-tracker/internal/logging"
	"task-tracker/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct {
	log *log.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{log: logging.Discard()}
}

// NewErrorHandlerWithLogger creates an error handler that logs system errors
func NewErrorHandlerWithLogger(logger *log.Logger) *ErrorHandler {
	return &ErrorHandler{log: logger}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	eh.logIfSystem(operation, err)

	// Handle raw validation errors first
	if validationErr, ok := err.(*validation.ValidationError); ok {
		return fmt.Errorf("failed to %s: %s", operation, validationErr.GetUserFriendlyMessage())
	}

	// Handle AppError types
	if _, ok := errors.AsAppError(err); ok {
		userMessage := errors.GetUserMessage(err)
		return fmt.Errorf("failed to %s: %s", operation, userMessage)
	}

	// Fallback for unknown errors
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	eh.logIfSystem("", err)

	if validationErr, ok := err.(*validation.ValidationError); ok {
		return fmt.Errorf("%s", validationErr.GetUserFriendlyMessage())
	}

	if _, ok := errors.AsAppError(err); ok {
		return fmt.Errorf("%s", errors.GetUserMessage(err))
	}

	return err
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsValidation(err)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsNotFound(err)
}

// IsEmptyStoreError checks if an error reports an empty store
func (eh *ErrorHandler) IsEmptyStoreError(err error) bool {
	return errors.IsEmptyStore(err)
}

// IsParseError checks if an error reports a malformed stored record
func (eh *ErrorHandler) IsParseError(err error) bool {
	return errors.IsParse(err)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}

func (eh *ErrorHandler) logIfSystem(operation string, err error) {
	if err == nil || !errors.ShouldLogError(err) {
		return
	}
	eh.log.Error("operation failed", "operation", operation, "code", eh.GetErrorCode(err), "err", err)
}
