package validation

import (
	"fmt"
	"strings"
)

// Rule names the check a field failed.
type Rule string

const (
	RuleRequired  Rule = "required"
	RuleLength    Rule = "length"
	RuleValue     Rule = "value"
	RuleCharacter Rule = "character"
	RuleSuffix    Rule = "suffix"
)

// FieldError is one failed check on one input field.
type FieldError struct {
	Field   string
	Rule    Rule
	Message string
	Value   interface{}
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", fe.Field, fe.Message)
}

// ValidationError collects every failed check for a single request so the
// user sees all problems with a task at once.
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError returns an empty collection.
func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make([]FieldError, 0)}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation error"
	case 1:
		return ve.Errors[0].Error()
	}

	messages := make([]string, len(ve.Errors))
	for i := range ve.Errors {
		messages[i] = ve.Errors[i].Error()
	}
	return "multiple validation errors: " + strings.Join(messages, "; ")
}

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// HasErrors reports whether any check failed.
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// Merge appends the failures of other, which may be nil or not a
// *ValidationError.
func (ve *ValidationError) Merge(other error) {
	if o, ok := other.(*ValidationError); ok && o != nil {
		ve.Errors = append(ve.Errors, o.Errors...)
	}
}

func (ve *ValidationError) add(field string, rule Rule, message string, value interface{}) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Rule: rule, Message: message, Value: value})
}

// AddRequiredError records a missing field.
func (ve *ValidationError) AddRequiredError(field string) {
	ve.add(field, RuleRequired, field+" is required", nil)
}

// AddInvalidLengthError records a field outside [min, max] characters.
// A bound of zero or less is open.
func (ve *ValidationError) AddInvalidLengthError(field string, value interface{}, min, max int) {
	var message string
	switch {
	case min > 0 && max > 0:
		message = fmt.Sprintf("%s must be between %d and %d characters long", field, min, max)
	case max > 0:
		message = fmt.Sprintf("%s must be at most %d characters long", field, max)
	case min > 0:
		message = fmt.Sprintf("%s must be at least %d characters long", field, min)
	default:
		message = field + " has invalid length"
	}
	ve.add(field, RuleLength, message, value)
}

// AddInvalidValueError records a value outside the accepted set.
func (ve *ValidationError) AddInvalidValueError(field string, value interface{}, reason string) {
	ve.add(field, RuleValue, fmt.Sprintf("%s has invalid value: %s", field, reason), value)
}

// AddInvalidCharacterError records text the storage encoding cannot hold.
func (ve *ValidationError) AddInvalidCharacterError(field string, value interface{}, detail string) {
	message := field + " contains invalid characters"
	if detail != "" {
		message = fmt.Sprintf("%s must not contain %s", field, detail)
	}
	ve.add(field, RuleCharacter, message, value)
}

// AddForbiddenSuffixError records a field ending the storage encoding would
// merge into the next delimiter.
func (ve *ValidationError) AddForbiddenSuffixError(field string, value interface{}, suffix string) {
	ve.add(field, RuleSuffix, fmt.Sprintf("%s must not end with %q", field, suffix), value)
}

// GetUserFriendlyMessage returns the text shown to the user.
func (ve *ValidationError) GetUserFriendlyMessage() string {
	switch len(ve.Errors) {
	case 0:
		return "Input validation failed"
	case 1:
		return ve.Errors[0].Message
	}

	lines := make([]string, len(ve.Errors))
	for i := range ve.Errors {
		lines[i] = "- " + ve.Errors[i].Message
	}
	return "Multiple validation errors occurred:\n" + strings.Join(lines, "\n")
}
