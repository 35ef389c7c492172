package validation

import (
	"strings"
	"unicode/utf8"

	"task-tracker/internal/config"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string length in characters is within the specified range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTitleLength checks if a title length is within configured limits
func (v *Validator) IsValidTitleLength(title string) bool {
	return v.IsValidStringLength(title, 1, v.getTitleMaxLength())
}

// ContainsAny reports the first forbidden sequence found in s.
func (v *Validator) ContainsAny(s string, forbidden []string) (string, bool) {
	for _, seq := range forbidden {
		if seq != "" && strings.Contains(s, seq) {
			return seq, true
		}
	}
	return "", false
}

// EndsWithAny reports the first forbidden suffix s ends with.
func (v *Validator) EndsWithAny(s string, suffixes []string) (string, bool) {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(s, suffix) {
			return suffix, true
		}
	}
	return "", false
}

// IsValidTaskID checks if a task ID is valid (positive)
func (v *Validator) IsValidTaskID(id int64) bool {
	return id > 0
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// getTitleMaxLength returns configured maximum title length or default
func (v *Validator) getTitleMaxLength() int {
	if v.config != nil && v.config.Validation.TitleMaxLength > 0 {
		return v.config.Validation.TitleMaxLength
	}
	return 255 // Default maximum
}
