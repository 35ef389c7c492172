package domain

import (
	"fmt"
	"strings"
)

// Status is the completion state of a task.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusCompleted}

// ParseStatus normalizes a user supplied status. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	trimmed := strings.TrimSpace(s)
	for _, status := range Statuses {
		if strings.EqualFold(trimmed, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// IsValid reports whether s is one of the enumerated statuses.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// String returns the status name.
func (s Status) String() string {
	return string(s)
}

// Task represents a task in the domain model.
// This is a pure domain model without storage-specific concerns.
type Task struct {
	ID          int64
	Title       string
	Status      Status
	Description string
}

// NewTask creates a new pending Task with the given title and description.
func NewTask(id int64, title, description string) Task {
	return Task{
		ID:          id,
		Title:       title,
		Status:      StatusPending,
		Description: description,
	}
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	return t.ID > 0 && t.Title != "" && t.Status.IsValid()
}

// IsCompleted reports whether the task is done.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}
