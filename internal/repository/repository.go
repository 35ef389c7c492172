// Package repository defines the persistence contract behind the task store.
//
// A repository stores the complete task sequence as a single snapshot. Every
// Save replaces what was stored before, so implementations never need to
// reconcile partial updates.
package repository

import (
	"context"

	"task-tracker/internal/domain"
)

// Snapshot is the persisted state of the store.
type Snapshot struct {
	// Tasks in sequence order. Order is significant and must survive a round trip.
	Tasks []domain.Task
	// NextID is the ID high-water mark. Zero means unknown.
	NextID int64
}

// Repository loads and saves task snapshots.
type Repository interface {
	// Load returns the stored snapshot. A repository that has never been
	// written returns an empty snapshot and no error.
	Load(ctx context.Context) (*Snapshot, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snapshot *Snapshot) error
	// Close releases any resources held by the repository.
	Close() error
}

// Constrainer is implemented by repositories whose encoding cannot represent
// every string. ForbiddenSequences lists substrings no text field may contain;
// ForbiddenTitleSuffixes lists endings the trimmed title may not have.
type Constrainer interface {
	ForbiddenSequences() []string
	ForbiddenTitleSuffixes() []string
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return &Snapshot{}
	}
	tasks := make([]domain.Task, len(s.Tasks))
	copy(tasks, s.Tasks)
	return &Snapshot{Tasks: tasks, NextID: s.NextID}
}

// MaxID returns the largest task ID in the snapshot, or zero.
func (s *Snapshot) MaxID() int64 {
	var max int64
	for _, t := range s.Tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}
