package domain

import "strings"

// SearchOptions represents search criteria for tasks.
type SearchOptions struct {
	Keyword string
}

// Matches reports whether the task title contains the keyword,
// ignoring case. An empty keyword matches every task.
func (o SearchOptions) Matches(t Task) bool {
	keyword := strings.ToLower(strings.TrimSpace(o.Keyword))
	return strings.Contains(strings.ToLower(t.Title), keyword)
}
