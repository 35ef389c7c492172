package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/logging"
	"task-tracker/internal/repository"
	"task-tracker/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Options configures a SQLite repository.
type Options struct {
	SkipMalformed bool
	Logger        *log.Logger
}

// SQLiteRepository implements repository.Repository on a SQLite database.
type SQLiteRepository struct {
	db   *sql.DB
	path string
	opts Options
	log  *log.Logger
}

var _ repository.Repository = (*SQLiteRepository)(nil)

// New opens (or creates) the database at dbPath and runs pending migrations.
func New(ctx context.Context, dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}
	if dbPath == MemoryPath {
		// Each connection to :memory: is its own database.
		db.SetMaxOpenConns(1)
	}

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewStorageError("run migrations", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &SQLiteRepository{db: db, path: dbPath, opts: opts, log: logger}, nil
}

// Path returns the database path.
func (r *SQLiteRepository) Path() string {
	return r.path
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Load implements repository.Repository.
func (r *SQLiteRepository) Load(ctx context.Context) (*repository.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewTimeoutError("load tasks", err)
	}

	query := `
	SELECT position, id, title, status, description
	FROM tasks
	ORDER BY position ASC`

	rows, err := QueryMultiple(ctx, r.db, query, ScanTasks, "tasks")
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		task, reason := row.toDomain()
		if reason == "" {
			tasks = append(tasks, task)
			continue
		}
		parseErr := errors.NewParseError("tasks table", int(row.Position), reason)
		if !r.opts.SkipMalformed {
			return nil, parseErr
		}
		r.log.Warn("skipping malformed record", "table", "tasks", "position", row.Position, "reason", reason)
	}

	nextID, err := r.loadNextID(ctx)
	if err != nil {
		return nil, err
	}

	r.log.Debug("loaded tasks", "path", r.path, "count", len(tasks), "next_id", nextID)
	return &repository.Snapshot{Tasks: tasks, NextID: nextID}, nil
}

// Save implements repository.Repository. The whole table is replaced in
// a single transaction.
func (r *SQLiteRepository) Save(ctx context.Context, snapshot *repository.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return errors.NewTimeoutError("save tasks", err)
	}
	if snapshot == nil {
		snapshot = &repository.Snapshot{}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return HandleDatabaseError("clear tasks", err)
	}

	insert := `
	INSERT INTO tasks (position, id, title, status, description)
	VALUES (?, ?, ?, ?, ?)`
	for i, task := range snapshot.Tasks {
		row := rowFromDomain(i+1, task)
		err := ExecuteWithRowsAffected(ctx, tx, insert, "task", fmt.Sprintf("%d", row.ID),
			row.Position, row.ID, row.Title, row.Status, row.Description)
		if err != nil {
			return err
		}
	}

	if snapshot.NextID > 0 {
		upsert := `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
		err := ExecuteWithRowsAffected(ctx, tx, upsert, "meta", MetaKeyNextID,
			MetaKeyNextID, FormatIDForDB(snapshot.NextID))
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit transaction", err)
	}

	r.log.Debug("saved tasks", "path", r.path, "count", len(snapshot.Tasks), "next_id", snapshot.NextID)
	return nil
}

func (r *SQLiteRepository) loadNextID(ctx context.Context) (int64, error) {
	query := `SELECT key, value FROM meta WHERE key = ?`
	meta, err := QuerySingle(ctx, r.db, query, ScanMeta, "meta", MetaKeyNextID, MetaKeyNextID)
	if err != nil {
		if errors.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}

	next, err := ParseIDFromDB(meta.Value)
	if err != nil || next < 0 {
		parseErr := errors.NewParseError("meta table", 0, fmt.Sprintf("invalid id counter %q", meta.Value))
		if !r.opts.SkipMalformed {
			return 0, parseErr
		}
		r.log.Warn("ignoring malformed id counter", "value", meta.Value)
		return 0, nil
	}
	return next, nil
}
