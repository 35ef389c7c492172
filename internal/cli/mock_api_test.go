package cli

import (
	"context"
	"io"

	"task-tracker/internal/api"
	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
)

// mockAPI implements the API interface with a fixed error for every call,
// which lets tests drive the failure paths of the command handlers.
type mockAPI struct {
	err    error
	closed bool
}

func newMockAPI(err error) *mockAPI {
	return &mockAPI{err: err}
}

func (m *mockAPI) AddTask(ctx context.Context, title, description string) (*domain.Task, error) {
	return nil, m.err
}

func (m *mockAPI) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	return nil, m.err
}

func (m *mockAPI) ViewTasks(ctx context.Context) ([]*domain.Task, error) {
	return nil, m.err
}

func (m *mockAPI) UpdateTaskStatus(ctx context.Context, id int64, status string) (*domain.Task, error) {
	return nil, m.err
}

func (m *mockAPI) DeleteTask(ctx context.Context, id int64) (*domain.Task, error) {
	return nil, m.err
}

func (m *mockAPI) SearchTasks(ctx context.Context, keyword string) ([]*domain.Task, error) {
	return nil, m.err
}

func (m *mockAPI) Summary(ctx context.Context) (*api.Summary, error) {
	return nil, m.err
}

func (m *mockAPI) Export(ctx context.Context, format string, w io.Writer) error {
	return m.err
}

func (m *mockAPI) Close() error {
	m.closed = true
	return nil
}

var errStorageDown = errors.NewStorageError("save tasks", io.ErrUnexpectedEOF)
