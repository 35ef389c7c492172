package sqlite

import (
	"strconv"
	"strings"

	"task-tracker/internal/domain"
)

// FormatStatusForDB returns the canonical stored form of a status
func FormatStatusForDB(s domain.Status) string {
	return s.String()
}

// ParseStatusFromDB parses a stored status, tolerating case and padding
func ParseStatusFromDB(s string) (domain.Status, error) {
	return domain.ParseStatus(s)
}

// FormatIDForDB formats an id for the meta table
func FormatIDForDB(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseIDFromDB parses an id stored in the meta table
func ParseIDFromDB(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
