package migrations

import (
	"database/sql"
	"fmt"
)

func init() {
	RegisterGoMigration(3, Up_000003_normalize_task_status, Down_000003_normalize_task_status)
}

// canonicalStatuses maps the lower-cased stored value to its canonical spelling.
var canonicalStatuses = map[string]string{
	"pending":   "Pending",
	"completed": "Completed",
}

// Up_000003_normalize_task_status rewrites status values written with
// inconsistent casing or padding ("pending", " COMPLETED") to their
// canonical form. Unknown values are left untouched so the loader can
// report them.
func Up_000003_normalize_task_status(tx *sql.Tx) error {
	type row struct {
		position int64
		status   string
	}
	var rows []row

	result, err := tx.Query("SELECT position, status FROM tasks")
	if err != nil {
		return fmt.Errorf("failed to query tasks: %w", err)
	}
	for result.Next() {
		var r row
		if err := result.Scan(&r.position, &r.status); err != nil {
			result.Close()
			return fmt.Errorf("failed to scan task row: %w", err)
		}
		rows = append(rows, r)
	}
	if err := result.Err(); err != nil {
		result.Close()
		return fmt.Errorf("error iterating tasks: %w", err)
	}
	result.Close()

	stmt, err := tx.Prepare("UPDATE tasks SET status = ? WHERE position = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare status update statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		canonical, ok := canonicalStatuses[normalizeKey(r.status)]
		if !ok || canonical == r.status {
			continue
		}
		if _, err := stmt.Exec(canonical, r.position); err != nil {
			return fmt.Errorf("failed to update status at position %d: %w", r.position, err)
		}
	}
	return nil
}

// Down_000003_normalize_task_status is a no-op; the previous casing is not recoverable.
func Down_000003_normalize_task_status(tx *sql.Tx) error {
	return nil
}
