package sqlite

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTask scans a single task row
func ScanTask(scanner Scanner) (*TaskRow, error) {
	row := &TaskRow{}
	err := scanner.Scan(
		&row.Position,
		&row.ID,
		&row.Title,
		&row.Status,
		&row.Description,
	)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// ScanTasks scans multiple task rows
func ScanTasks(rows Rows) ([]*TaskRow, error) {
	var tasks []*TaskRow
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// ScanMeta scans a single meta row
func ScanMeta(scanner Scanner) (*Meta, error) {
	meta := &Meta{}
	if err := scanner.Scan(&meta.Key, &meta.Value); err != nil {
		return nil, err
	}
	return meta, nil
}
