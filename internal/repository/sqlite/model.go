package sqlite

import (
	"fmt"

	"task-tracker/internal/domain"
)

// TaskRow mirrors a row of the tasks table. Position preserves the
// in-memory order; ids are not required to be unique.
type TaskRow struct {
	Position    int64
	ID          int64
	Title       string
	Status      string
	Description string
}

// MetaKeyNextID is the meta table key holding the ID high-water mark.
const MetaKeyNextID = "next_id"

// Meta is a single key/value row of the meta table.
type Meta struct {
	Key   string
	Value string
}

func rowFromDomain(position int, task domain.Task) TaskRow {
	return TaskRow{
		Position:    int64(position),
		ID:          task.ID,
		Title:       task.Title,
		Status:      FormatStatusForDB(task.Status),
		Description: task.Description,
	}
}

// toDomain converts the row, returning a non-empty reason when the row is malformed.
func (r TaskRow) toDomain() (domain.Task, string) {
	if r.ID <= 0 {
		return domain.Task{}, fmt.Sprintf("id must be positive, got %d", r.ID)
	}
	status, err := ParseStatusFromDB(r.Status)
	if err != nil {
		return domain.Task{}, fmt.Sprintf("invalid status %q", r.Status)
	}
	return domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Status:      status,
		Description: r.Description,
	}, ""
}
