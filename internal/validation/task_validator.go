package validation

import (
	"strconv"
	"strings"

	"task-tracker/internal/config"
	"task-tracker/internal/domain"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithConfig creates a task validator using configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateTitle validates a task title for creation
func (tv *TaskValidator) ValidateTitle(title string) error {
	validationError := NewValidationError()

	trimmedTitle := tv.validator.TrimAndValidateString(title)

	if !tv.validator.IsNonEmptyString(trimmedTitle) {
		validationError.AddRequiredError("title")
		return validationError
	}

	if !tv.validator.IsValidTitleLength(trimmedTitle) {
		validationError.AddInvalidLengthError("title", trimmedTitle, 1, tv.validator.getTitleMaxLength())
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}

// Constraints describes text the storage encoding cannot represent.
type Constraints struct {
	// Sequences no title or description may contain.
	Sequences []string
	// TitleSuffixes the trimmed title may not end with.
	TitleSuffixes []string
}

// ValidateNewTask validates the fields of a task about to be created.
func (tv *TaskValidator) ValidateNewTask(title, description string, c Constraints) error {
	validationError := NewValidationError()
	validationError.Merge(tv.ValidateTitle(title))

	if seq, found := tv.validator.ContainsAny(title, c.Sequences); found {
		validationError.AddInvalidCharacterError("title", title, describeSequence(seq))
	}
	if suffix, found := tv.validator.EndsWithAny(tv.validator.TrimAndValidateString(title), c.TitleSuffixes); found {
		validationError.AddForbiddenSuffixError("title", title, suffix)
	}
	if seq, found := tv.validator.ContainsAny(description, c.Sequences); found {
		validationError.AddInvalidCharacterError("description", description, describeSequence(seq))
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	if !tv.validator.IsValidTaskID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("task_id", id, "must be a positive integer")
		return validationError
	}
	return nil
}

// ValidateStatus parses a status supplied by the user
func (tv *TaskValidator) ValidateStatus(status string) (domain.Status, error) {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		validationError := NewValidationError()
		names := make([]string, len(domain.Statuses))
		for i, s := range domain.Statuses {
			names[i] = "'" + s.String() + "'"
		}
		validationError.AddInvalidValueError("status", status, "must be "+strings.Join(names, " or "))
		return "", validationError
	}
	return parsed, nil
}

func describeSequence(seq string) string {
	switch seq {
	case "\n":
		return "newline"
	case "\r":
		return "carriage return"
	default:
		return strconv.Quote(seq)
	}
}

