// Package flatfile persists the task sequence in a single text file.
//
// The whole file is rewritten on every save. Writes go to a temporary file
// in the same directory which is then renamed over the backing file, so a
// crash mid-write never leaves a truncated task list behind. The ID
// high-water mark lives next to the backing file in "<file>.seq".
package flatfile

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"task-tracker/internal/errors"
	"task-tracker/internal/logging"
	"task-tracker/internal/repository"
)

// SequenceSuffix is appended to the backing file name for the ID counter file.
const SequenceSuffix = ".seq"

// Options configures a flat-file repository.
type Options struct {
	Codec           Codec
	SkipMalformed   bool
	FilePermissions os.FileMode
	DirPermissions  os.FileMode
	Logger          *log.Logger
}

// DefaultOptions returns the options for the plain delimited tasks.txt layout.
func DefaultOptions() Options {
	return Options{
		Codec:           DelimitedCodec{},
		FilePermissions: 0644,
		DirPermissions:  0755,
	}
}

// Repository implements repository.Repository on top of a flat file.
type Repository struct {
	path string
	opts Options
	log  *log.Logger
}

var (
	_ repository.Repository  = (*Repository)(nil)
	_ repository.Constrainer = (*Repository)(nil)
)

// New creates a repository for the file at path. The file need not exist.
func New(path string, opts Options) *Repository {
	defaults := DefaultOptions()
	if opts.Codec == nil {
		opts.Codec = defaults.Codec
	}
	if opts.FilePermissions == 0 {
		opts.FilePermissions = defaults.FilePermissions
	}
	if opts.DirPermissions == 0 {
		opts.DirPermissions = defaults.DirPermissions
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Repository{path: path, opts: opts, log: logger}
}

// Path returns the backing file path.
func (r *Repository) Path() string {
	return r.path
}

// SequencePath returns the path of the ID counter file.
func (r *Repository) SequencePath() string {
	return r.path + SequenceSuffix
}

// Codec returns the active codec.
func (r *Repository) Codec() Codec {
	return r.opts.Codec
}

// ForbiddenSequences implements repository.Constrainer.
func (r *Repository) ForbiddenSequences() []string {
	return r.opts.Codec.ForbiddenSequences()
}

// ForbiddenTitleSuffixes implements repository.Constrainer.
func (r *Repository) ForbiddenTitleSuffixes() []string {
	return r.opts.Codec.ForbiddenTitleSuffixes()
}

// Load implements repository.Repository.
func (r *Repository) Load(ctx context.Context) (*repository.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeoutError("load tasks", err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.log.Debug("backing file not found, starting empty", "path", r.path)
			data = nil
		} else {
			return nil, r.ioError("read", r.path, err)
		}
	}

	source := filepath.Base(r.path)
	skipped := 0
	tasks, err := r.opts.Codec.Decode(bytes.NewReader(data), source, func(parseErr *errors.AppError) error {
		if !r.opts.SkipMalformed {
			return parseErr
		}
		skipped++
		line, _ := parseErr.GetContext("line")
		reason, _ := parseErr.GetContext("reason")
		r.log.Warn("skipping malformed record", "file", source, "line", line, "reason", reason)
		return nil
	})
	if err != nil {
		return nil, err
	}

	nextID, err := r.loadSequence()
	if err != nil {
		return nil, err
	}

	r.log.Debug("loaded tasks", "path", r.path, "count", len(tasks), "skipped", skipped, "next_id", nextID)
	return &repository.Snapshot{Tasks: tasks, NextID: nextID}, nil
}

// Save implements repository.Repository.
func (r *Repository) Save(ctx context.Context, snapshot *repository.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return errors.NewTimeoutError("save tasks", err)
	}
	if snapshot == nil {
		snapshot = &repository.Snapshot{}
	}

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, r.opts.DirPermissions); err != nil {
			return r.ioError("create directory", dir, err)
		}
	}

	var buf bytes.Buffer
	if err := r.opts.Codec.Encode(&buf, snapshot.Tasks); err != nil {
		return errors.NewStorageError("encode tasks", err)
	}
	if err := r.writeAtomic(r.path, buf.Bytes()); err != nil {
		return err
	}

	if snapshot.NextID > 0 {
		seq := []byte(strconv.FormatInt(snapshot.NextID, 10) + "\n")
		if err := r.writeAtomic(r.SequencePath(), seq); err != nil {
			return err
		}
	}

	r.log.Debug("saved tasks", "path", r.path, "count", len(snapshot.Tasks), "next_id", snapshot.NextID)
	return nil
}

// Close implements repository.Repository. Flat files hold no open handles.
func (r *Repository) Close() error {
	return nil
}

func (r *Repository) loadSequence() (int64, error) {
	data, err := os.ReadFile(r.SequencePath())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, r.ioError("read", r.SequencePath(), err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, nil
	}
	next, err := strconv.ParseInt(text, 10, 64)
	if err != nil || next < 0 {
		parseErr := errors.NewParseError(filepath.Base(r.SequencePath()), 1, fmt.Sprintf("invalid id counter %q", text))
		if !r.opts.SkipMalformed {
			return 0, parseErr
		}
		r.log.Warn("ignoring malformed id counter", "file", r.SequencePath(), "value", text)
		return 0, nil
	}
	return next, nil
}

func (r *Repository) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return r.ioError("create temp file", dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return r.ioError("write", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return r.ioError("sync", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return r.ioError("close", tmpName, err)
	}
	if err := os.Chmod(tmpName, r.opts.FilePermissions); err != nil {
		os.Remove(tmpName)
		return r.ioError("chmod", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return r.ioError("replace", path, err)
	}
	return nil
}

func (r *Repository) ioError(operation, path string, err error) error {
	if os.IsPermission(err) {
		return errors.NewPermissionError(operation, path, err)
	}
	return errors.NewStorageError(operation+" "+path, err)
}
