package sqlite

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/repository"
)

func setupTestDB(t *testing.T, opts Options) *SQLiteRepository {
	t.Helper()
	repo, err := New(context.Background(), filepath.Join(t.TempDir(), "tasks.db"), opts)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleTasks() []domain.Task {
	return []domain.Task{
		{ID: 3, Title: "Project Beta", Status: domain.StatusPending, Description: "kick-off"},
		{ID: 1, Title: "Project Alpha", Status: domain.StatusCompleted, Description: ""},
		{ID: 2, Title: "a||b", Status: domain.StatusPending, Description: "multi\nline"},
	}
}

func TestLoadEmptyDatabase(t *testing.T) {
	repo := setupTestDB(t, Options{})

	snapshot, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshot.Tasks)
	assert.Zero(t, snapshot.NextID)
}

func TestSaveAndLoad(t *testing.T) {
	repo := setupTestDB(t, Options{})
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &repository.Snapshot{Tasks: sampleTasks(), NextID: 4}))

	snapshot, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleTasks(), snapshot.Tasks)
	assert.Equal(t, int64(4), snapshot.NextID)

	// A later save replaces the whole table.
	require.NoError(t, repo.Save(ctx, &repository.Snapshot{Tasks: sampleTasks()[:1], NextID: 9}))
	snapshot, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleTasks()[:1], snapshot.Tasks)
	assert.Equal(t, int64(9), snapshot.NextID)
}

func TestSaveAllowsDuplicateIDs(t *testing.T) {
	repo := setupTestDB(t, Options{})
	ctx := context.Background()
	tasks := []domain.Task{
		{ID: 2, Title: "first", Status: domain.StatusPending},
		{ID: 2, Title: "second", Status: domain.StatusPending},
	}

	require.NoError(t, repo.Save(ctx, &repository.Snapshot{Tasks: tasks}))
	snapshot, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, tasks, snapshot.Tasks)
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	ctx := context.Background()

	repo, err := New(ctx, path, Options{})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, &repository.Snapshot{Tasks: sampleTasks(), NextID: 4}))
	require.NoError(t, repo.Close())

	reopened, err := New(ctx, path, Options{})
	require.NoError(t, err)
	defer reopened.Close()

	snapshot, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleTasks(), snapshot.Tasks)
}

func TestInMemoryDatabase(t *testing.T) {
	ctx := context.Background()
	repo, err := New(ctx, MemoryPath, Options{})
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Save(ctx, &repository.Snapshot{Tasks: sampleTasks()}))
	snapshot, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Tasks, 3)
}

func TestLoadMalformedRow(t *testing.T) {
	repo := setupTestDB(t, Options{})
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &repository.Snapshot{Tasks: sampleTasks()}))

	_, err := repo.db.Exec("UPDATE tasks SET status = 'archived' WHERE position = 2")
	require.NoError(t, err)

	_, err = repo.Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))
	assert.Contains(t, err.Error(), "archived")

	var logs bytes.Buffer
	repo.opts.SkipMalformed = true
	repo.log = log.NewWithOptions(&logs, log.Options{Level: log.WarnLevel})

	snapshot, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Tasks, 2)
	assert.Contains(t, logs.String(), "skipping malformed record")
}

func TestLoadMalformedCounter(t *testing.T) {
	repo := setupTestDB(t, Options{})
	ctx := context.Background()

	_, err := repo.db.Exec("INSERT INTO meta (key, value) VALUES ('next_id', 'soon')")
	require.NoError(t, err)

	_, err = repo.Load(ctx)
	assert.True(t, errors.IsParse(err))
}

func TestCancelledContext(t *testing.T) {
	repo := setupTestDB(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeTimeout))

	err = repo.Save(ctx, &repository.Snapshot{})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeTimeout))
}
