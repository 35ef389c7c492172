package validation

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		errors   []FieldError
		expected string
	}{
		{"no failures", nil, "validation error"},
		{"one failure", []FieldError{{Field: "title", Message: "title is required"}}, "invalid title: title is required"},
		{"two failures", []FieldError{
			{Field: "title", Message: "title is required"},
			{Field: "description", Message: "description must not contain newline"},
		}, "multiple validation errors: invalid title: title is required; invalid description: description must not contain newline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			assert.Equal(t, tt.expected, ve.Error())
		})
	}
}

func TestValidationError_Rules(t *testing.T) {
	ve := NewValidationError()
	assert.False(t, ve.HasErrors())

	ve.AddRequiredError("title")
	ve.AddInvalidLengthError("title", "xxxx", 1, 3)
	ve.AddInvalidValueError("status", "Done", "must be 'Pending' or 'Completed'")
	ve.AddInvalidCharacterError("description", "a||b", `"||"`)
	ve.AddForbiddenSuffixError("title", "pipe|", "|")

	require.True(t, ve.HasErrors())
	require.Len(t, ve.Errors, 5)

	expected := []struct {
		field   string
		rule    Rule
		message string
	}{
		{"title", RuleRequired, "title is required"},
		{"title", RuleLength, "title must be between 1 and 3 characters long"},
		{"status", RuleValue, "status has invalid value: must be 'Pending' or 'Completed'"},
		{"description", RuleCharacter, `description must not contain "||"`},
		{"title", RuleSuffix, `title must not end with "|"`},
	}
	for i, want := range expected {
		assert.Equal(t, want.field, ve.Errors[i].Field)
		assert.Equal(t, want.rule, ve.Errors[i].Rule)
		assert.Equal(t, want.message, ve.Errors[i].Message)
	}
	assert.Equal(t, "pipe|", ve.Errors[4].Value)
}

func TestValidationError_AddInvalidLengthError_OpenBounds(t *testing.T) {
	ve := NewValidationError()
	ve.AddInvalidLengthError("title", "", 0, 255)
	ve.AddInvalidLengthError("title", "", 1, 0)
	ve.AddInvalidLengthError("title", "", 0, 0)

	assert.Equal(t, "title must be at most 255 characters long", ve.Errors[0].Message)
	assert.Equal(t, "title must be at least 1 characters long", ve.Errors[1].Message)
	assert.Equal(t, "title has invalid length", ve.Errors[2].Message)
}

func TestValidationError_AddInvalidCharacterError_NoDetail(t *testing.T) {
	ve := NewValidationError()
	ve.AddInvalidCharacterError("title", "x", "")
	assert.Equal(t, "title contains invalid characters", ve.Errors[0].Message)
}

func TestValidationError_Merge(t *testing.T) {
	title := NewValidationError()
	title.AddRequiredError("title")

	ve := NewValidationError()
	ve.Merge(nil)
	ve.Merge(stderrors.New("not a validation error"))
	assert.False(t, ve.HasErrors())

	ve.Merge(title)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, RuleRequired, ve.Errors[0].Rule)
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	ve := NewValidationError()
	assert.Equal(t, "Input validation failed", ve.GetUserFriendlyMessage())

	ve.AddRequiredError("title")
	assert.Equal(t, "title is required", ve.GetUserFriendlyMessage())

	ve.AddInvalidCharacterError("description", "a\nb", "newline")
	assert.Equal(t, "Multiple validation errors occurred:\n- title is required\n- description must not contain newline", ve.GetUserFriendlyMessage())
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(NewValidationError()))
	assert.False(t, IsValidationError(stderrors.New("boom")))
	assert.False(t, IsValidationError(nil))
}
