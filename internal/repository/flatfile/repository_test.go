package flatfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/repository"
)

func setupTestRepository(t *testing.T, opts Options) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.txt")
	return New(path, opts), path
}

func TestRepository_LoadMissingFile(t *testing.T) {
	repo, _ := setupTestRepository(t, DefaultOptions())

	snapshot, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshot.Tasks)
	assert.Zero(t, snapshot.NextID)
}

func TestRepository_SaveAndLoad(t *testing.T) {
	repo, path := setupTestRepository(t, DefaultOptions())
	ctx := context.Background()

	snapshot := &repository.Snapshot{Tasks: sampleTasks(), NextID: 4}
	require.NoError(t, repo.Save(ctx, snapshot))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "3||Project Beta||Pending||kick-off\n", string(bytes.SplitAfter(data, []byte("\n"))[0]))

	seq, err := os.ReadFile(repo.SequencePath())
	require.NoError(t, err)
	assert.Equal(t, "4\n", string(seq))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleTasks(), loaded.Tasks)
	assert.Equal(t, int64(4), loaded.NextID)
}

func TestRepository_SaveEmptyTruncatesFile(t *testing.T) {
	repo, path := setupTestRepository(t, DefaultOptions())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &repository.Snapshot{Tasks: sampleTasks()}))
	require.NoError(t, repo.Save(ctx, &repository.Snapshot{}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestRepository_SaveWithoutNextIDSkipsSequenceFile(t *testing.T) {
	repo, _ := setupTestRepository(t, DefaultOptions())

	require.NoError(t, repo.Save(context.Background(), &repository.Snapshot{Tasks: sampleTasks()}))
	_, err := os.Stat(repo.SequencePath())
	assert.True(t, os.IsNotExist(err))
}

func TestRepository_SaveCreatesDirectoryAndLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	repo := New(filepath.Join(dir, "tasks.txt"), DefaultOptions())

	require.NoError(t, repo.Save(context.Background(), &repository.Snapshot{Tasks: sampleTasks(), NextID: 4}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"tasks.txt", "tasks.txt.seq"}, names)
}

func TestRepository_LoadMalformedIsFatalByDefault(t *testing.T) {
	repo, path := setupTestRepository(t, DefaultOptions())
	require.NoError(t, os.WriteFile(path, []byte("1||a||Pending||b\ngarbage\n"), 0644))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))
	assert.Contains(t, err.Error(), "tasks.txt line 2")
}

func TestRepository_LoadSkipMalformedWarns(t *testing.T) {
	var logs bytes.Buffer
	opts := DefaultOptions()
	opts.SkipMalformed = true
	opts.Logger = log.NewWithOptions(&logs, log.Options{Level: log.WarnLevel})
	repo, path := setupTestRepository(t, opts)
	require.NoError(t, os.WriteFile(path, []byte("1||a||Pending||b\ngarbage\n2||c||Completed||d\n"), 0644))

	snapshot, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Tasks, 2)
	assert.Contains(t, logs.String(), "skipping malformed record")
	assert.Contains(t, logs.String(), "line=2")
}

func TestRepository_MalformedSequenceFile(t *testing.T) {
	repo, _ := setupTestRepository(t, DefaultOptions())
	require.NoError(t, os.WriteFile(repo.SequencePath(), []byte("abc\n"), 0644))

	_, err := repo.Load(context.Background())
	assert.True(t, errors.IsParse(err))

	opts := DefaultOptions()
	opts.SkipMalformed = true
	lenient := New(repo.Path(), opts)
	snapshot, err := lenient.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snapshot.NextID)
}

func TestRepository_StructuredCodecs(t *testing.T) {
	for _, codec := range []Codec{CSVCodec{}, YAMLCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Codec = codec
			repo, _ := setupTestRepository(t, opts)
			ctx := context.Background()

			tasks := []domain.Task{
				{ID: 1, Title: "a||b", Status: domain.StatusPending, Description: "multi\nline"},
			}
			require.NoError(t, repo.Save(ctx, &repository.Snapshot{Tasks: tasks, NextID: 2}))

			loaded, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, tasks, loaded.Tasks)
			assert.Empty(t, repo.ForbiddenSequences())
			assert.Empty(t, repo.ForbiddenTitleSuffixes())
		})
	}
}

func TestRepository_CancelledContext(t *testing.T) {
	repo, _ := setupTestRepository(t, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeTimeout))

	err = repo.Save(ctx, &repository.Snapshot{})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeTimeout))
}

func TestRepository_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission checks need a non-root unix user")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	repo := New(filepath.Join(dir, "tasks.txt"), DefaultOptions())
	err := repo.Save(context.Background(), &repository.Snapshot{Tasks: sampleTasks()})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))
}

func TestRepository_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}
	opts := DefaultOptions()
	opts.FilePermissions = 0600
	repo, path := setupTestRepository(t, opts)

	require.NoError(t, repo.Save(context.Background(), &repository.Snapshot{Tasks: sampleTasks()}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
