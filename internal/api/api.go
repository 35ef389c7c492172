package api

import (
	"context"
	"io"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/export"
	"task-tracker/internal/store"
	"task-tracker/internal/validation"
)

// API defines the interface for all task operations used by the CLI.
type API interface {
	AddTask(ctx context.Context, title, description string) (*domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	ViewTasks(ctx context.Context) ([]*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id int64, status string) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) (*domain.Task, error)
	SearchTasks(ctx context.Context, keyword string) ([]*domain.Task, error)
	Summary(ctx context.Context) (*Summary, error)
	Export(ctx context.Context, format string, w io.Writer) error
	Close() error
}

// Summary counts tasks by status.
type Summary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

type apiImpl struct {
	store         *store.TaskStore
	exporter      *export.Exporter
	taskValidator *validation.TaskValidator
}

// New creates a new API instance. A nil exporter exports from s.
func New(s *store.TaskStore, exporter *export.Exporter) API {
	if exporter == nil {
		exporter = export.NewExporter(s)
	}
	return &apiImpl{
		store:         s,
		exporter:      exporter,
		taskValidator: validation.NewTaskValidator(),
	}
}

func (a *apiImpl) AddTask(ctx context.Context, title, description string) (*domain.Task, error) {
	task, err := a.store.Add(ctx, title, description)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (a *apiImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if err := a.validateID(id); err != nil {
		return nil, err
	}

	task, err := a.store.Get(id)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (a *apiImpl) ViewTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := a.store.View()
	if err != nil {
		return nil, err
	}
	return toPointers(tasks), nil
}

func (a *apiImpl) UpdateTaskStatus(ctx context.Context, id int64, status string) (*domain.Task, error) {
	if err := a.validateID(id); err != nil {
		return nil, err
	}

	task, err := a.store.Update(ctx, id, status)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (a *apiImpl) DeleteTask(ctx context.Context, id int64) (*domain.Task, error) {
	if err := a.validateID(id); err != nil {
		return nil, err
	}

	task, err := a.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (a *apiImpl) SearchTasks(ctx context.Context, keyword string) ([]*domain.Task, error) {
	tasks, err := a.store.Search(keyword)
	if err != nil {
		return nil, err
	}
	return toPointers(tasks), nil
}

func (a *apiImpl) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	for _, t := range a.store.Tasks() {
		summary.Total++
		if t.IsCompleted() {
			summary.Completed++
		} else {
			summary.Pending++
		}
	}
	return summary, nil
}

func (a *apiImpl) Export(ctx context.Context, format string, w io.Writer) error {
	return a.exporter.Export(ctx, format, w)
}

func (a *apiImpl) Close() error {
	return a.store.Close()
}

func (a *apiImpl) validateID(id int64) error {
	if err := a.taskValidator.ValidateTaskID(id); err != nil {
		return errors.NewInvalidInputError("task_id", id, "must be a positive integer")
	}
	return nil
}

func toPointers(tasks []domain.Task) []*domain.Task {
	out := make([]*domain.Task, len(tasks))
	for i := range tasks {
		out[i] = &tasks[i]
	}
	return out
}
