// Package store owns the in-memory task sequence and keeps it in step with
// the backing repository. Every successful mutation is persisted before it
// returns; a mutation whose save fails is rolled back.
package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/logging"
	"task-tracker/internal/repository"
	"task-tracker/internal/validation"
)

// IDPolicy selects how new task IDs are assigned.
type IDPolicy string

const (
	// IDPolicyMonotonic hands out IDs from a persisted high-water mark and
	// never reissues an ID, even after deletions.
	IDPolicyMonotonic IDPolicy = "monotonic"
	// IDPolicySequential assigns len(tasks)+1, which can reuse the ID of a
	// deleted task.
	IDPolicySequential IDPolicy = "sequential"
)

// ParseIDPolicy parses a policy name case-insensitively.
func ParseIDPolicy(s string) (IDPolicy, error) {
	switch IDPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case IDPolicyMonotonic:
		return IDPolicyMonotonic, nil
	case IDPolicySequential:
		return IDPolicySequential, nil
	default:
		return "", errors.NewInvalidInputError("id_policy", s, "must be 'monotonic' or 'sequential'")
	}
}

// TaskStore is the single owner of the task sequence.
type TaskStore struct {
	repo      repository.Repository
	tasks     []domain.Task
	nextID    int64
	policy    IDPolicy
	validator *validation.TaskValidator
	log       *log.Logger
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithIDPolicy sets the ID assignment policy.
func WithIDPolicy(policy IDPolicy) Option {
	return func(s *TaskStore) {
		s.policy = policy
	}
}

// WithValidator sets the validator used for new tasks and status updates.
func WithValidator(v *validation.TaskValidator) Option {
	return func(s *TaskStore) {
		s.validator = v
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *TaskStore) {
		s.log = logger
	}
}

// New creates an empty store backed by repo. Call Load to read existing tasks.
func New(repo repository.Repository, opts ...Option) *TaskStore {
	s := &TaskStore{
		repo:   repo,
		nextID: 1,
		policy: IDPolicyMonotonic,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validator == nil {
		s.validator = validation.NewTaskValidator()
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	return s
}

// Load replaces the in-memory sequence with the repository contents.
func (s *TaskStore) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.NewTimeoutError("load tasks", err)
	}

	snapshot, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	s.tasks = snapshot.Clone().Tasks
	s.nextID = snapshot.NextID
	if floor := snapshot.MaxID() + 1; s.nextID < floor {
		s.nextID = floor
	}

	s.log.Debug("store loaded", "count", len(s.tasks), "next_id", s.nextID, "policy", s.policy)
	return nil
}

// Save writes the current sequence to the repository.
func (s *TaskStore) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.NewTimeoutError("save tasks", err)
	}
	return s.repo.Save(ctx, &repository.Snapshot{Tasks: s.Tasks(), NextID: s.nextID})
}

// Close releases the repository.
func (s *TaskStore) Close() error {
	return s.repo.Close()
}

// Add appends a new pending task and saves.
func (s *TaskStore) Add(ctx context.Context, title, description string) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, errors.NewTimeoutError("add task", err)
	}

	if err := s.validator.ValidateNewTask(title, description, s.constraints()); err != nil {
		return domain.Task{}, errors.NewValidationError("invalid task", err)
	}

	task := domain.NewTask(s.assignID(), strings.TrimSpace(title), description)

	prevLen, prevNext := len(s.tasks), s.nextID
	s.tasks = append(s.tasks, task)
	if task.ID >= s.nextID {
		s.nextID = task.ID + 1
	}

	if err := s.Save(ctx); err != nil {
		s.tasks = s.tasks[:prevLen]
		s.nextID = prevNext
		return domain.Task{}, err
	}

	s.log.Info("task added", "id", task.ID, "title", task.Title)
	return task, nil
}

// View returns a copy of every task in sequence order. An empty store is
// reported as an EmptyStoreError.
func (s *TaskStore) View() ([]domain.Task, error) {
	if len(s.tasks) == 0 {
		return nil, errors.NewEmptyStoreError("view tasks")
	}
	return s.Tasks(), nil
}

// Get returns the first task with the given ID.
func (s *TaskStore) Get(id int64) (domain.Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, notFound(id)
	}
	return s.tasks[i], nil
}

// Update sets the status of the first task with the given ID and saves.
// The ID is resolved before the status is validated.
func (s *TaskStore) Update(ctx context.Context, id int64, status string) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, errors.NewTimeoutError("update task", err)
	}

	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, notFound(id)
	}

	parsed, err := s.validator.ValidateStatus(status)
	if err != nil {
		return domain.Task{}, errors.NewValidationError("invalid status", err)
	}

	prev := s.tasks[i]
	s.tasks[i].Status = parsed

	if err := s.Save(ctx); err != nil {
		s.tasks[i] = prev
		return domain.Task{}, err
	}

	s.log.Info("task updated", "id", id, "status", parsed)
	return s.tasks[i], nil
}

// Delete removes the first task with the given ID and saves. Remaining
// tasks keep their IDs.
func (s *TaskStore) Delete(ctx context.Context, id int64) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, errors.NewTimeoutError("delete task", err)
	}

	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, notFound(id)
	}

	prev := s.tasks
	removed := prev[i]
	remaining := make([]domain.Task, 0, len(prev)-1)
	remaining = append(remaining, prev[:i]...)
	remaining = append(remaining, prev[i+1:]...)
	s.tasks = remaining

	if err := s.Save(ctx); err != nil {
		s.tasks = prev
		return domain.Task{}, err
	}

	s.log.Info("task deleted", "id", id, "title", removed.Title)
	return removed, nil
}

// Search returns the tasks whose title contains keyword, ignoring case.
// No matches yields an empty slice; an empty store is an EmptyStoreError.
func (s *TaskStore) Search(keyword string) ([]domain.Task, error) {
	if len(s.tasks) == 0 {
		return nil, errors.NewEmptyStoreError("search tasks")
	}

	opts := domain.SearchOptions{Keyword: keyword}
	results := []domain.Task{}
	for _, t := range s.tasks {
		if opts.Matches(t) {
			results = append(results, t)
		}
	}
	return results, nil
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// Tasks returns a copy of the task sequence, possibly empty.
func (s *TaskStore) Tasks() []domain.Task {
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// NextID returns the ID the monotonic policy would assign next.
func (s *TaskStore) NextID() int64 {
	return s.nextID
}

// Policy returns the active ID policy.
func (s *TaskStore) Policy() IDPolicy {
	return s.policy
}

func (s *TaskStore) assignID() int64 {
	if s.policy == IDPolicySequential {
		return int64(len(s.tasks)) + 1
	}
	return s.nextID
}

func (s *TaskStore) indexOf(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) constraints() validation.Constraints {
	if c, ok := s.repo.(repository.Constrainer); ok {
		return validation.Constraints{
			Sequences:     c.ForbiddenSequences(),
			TitleSuffixes: c.ForbiddenTitleSuffixes(),
		}
	}
	return validation.Constraints{}
}

func notFound(id int64) error {
	return errors.NewNotFoundError("task", strconv.FormatInt(id, 10))
}

