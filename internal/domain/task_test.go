package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name        string
		id          int64
		title       string
		description string
		expected    Task
	}{
		{
			name:        "creates pending task",
			id:          1,
			title:       "Write report",
			description: "Q3 numbers",
			expected:    Task{ID: 1, Title: "Write report", Status: StatusPending, Description: "Q3 numbers"},
		},
		{
			name:     "creates task with empty description",
			id:       7,
			title:    "Buy milk",
			expected: Task{ID: 7, Title: "Buy milk", Status: StatusPending},
		},
		{
			name:     "creates task with special characters",
			id:       2,
			title:    "Task-with_special@chars!",
			expected: Task{ID: 2, Title: "Task-with_special@chars!", Status: StatusPending},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewTask(tt.id, tt.title, tt.description)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected Status
		wantErr  bool
	}{
		{input: "Pending", expected: StatusPending},
		{input: "pending", expected: StatusPending},
		{input: "PENDING", expected: StatusPending},
		{input: "completed", expected: StatusCompleted},
		{input: "  Completed  ", expected: StatusCompleted},
		{input: "cOmPlEtEd", expected: StatusCompleted},
		{input: "archived", wantErr: true},
		{input: "", wantErr: true},
		{input: "done", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := ParseStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestTask_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		task     Task
		expected bool
	}{
		{
			name:     "valid pending task",
			task:     Task{ID: 1, Title: "Valid Task", Status: StatusPending},
			expected: true,
		},
		{
			name:     "invalid task with empty title",
			task:     Task{ID: 1, Title: "", Status: StatusPending},
			expected: false,
		},
		{
			name:     "invalid task with zero ID",
			task:     Task{ID: 0, Title: "Valid Task", Status: StatusPending},
			expected: false,
		},
		{
			name:     "invalid task with unknown status",
			task:     Task{ID: 3, Title: "Valid Task", Status: "Archived"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.task.IsValid())
		})
	}
}

func TestTask_String(t *testing.T) {
	task := Task{ID: 1, Title: "My Task", Status: StatusCompleted}
	assert.Equal(t, "My Task", task.String())
	assert.True(t, task.IsCompleted())
}

func TestSearchOptions_Matches(t *testing.T) {
	tasks := []Task{
		{ID: 1, Title: "Project Alpha"},
		{ID: 2, Title: "Buy milk"},
		{ID: 3, Title: "Project Beta"},
	}

	var matched []int64
	opts := SearchOptions{Keyword: "proj"}
	for _, task := range tasks {
		if opts.Matches(task) {
			matched = append(matched, task.ID)
		}
	}
	assert.Equal(t, []int64{1, 3}, matched)

	assert.True(t, SearchOptions{}.Matches(tasks[1]), "empty keyword matches everything")
	assert.True(t, SearchOptions{Keyword: " MILK "}.Matches(tasks[1]))
	assert.False(t, SearchOptions{Keyword: "gamma"}.Matches(tasks[0]))
}
