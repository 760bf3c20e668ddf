// Package store persists tasks in a document collection.
package store

import (
	"context"
	"errors"
	"fmt"

	"taskman/internal/task"
)

var (
	// ErrNotFound is returned when no task exists for an identifier.
	ErrNotFound = errors.New("task not found")
	// ErrDuplicateID is returned when an insert collides with an
	// existing task_id.
	ErrDuplicateID = errors.New("task ID already exists")
)

// ConnectionError reports an unreachable store. It is surfaced to the
// caller unchanged; no call is retried.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Filter narrows FindAll results. The zero value matches every task.
type Filter struct {
	// Priority matches tasks with exactly this priority.
	Priority *task.Priority
	// Status matches tasks with exactly this status.
	Status *task.Status
	// Due is "today", "overdue", or an explicit date in a supported
	// layout.
	Due string
	// Search is a case-insensitive substring matched against title and
	// description.
	Search string
}

// Store is the persistence gateway contract. Results are ordered by
// created_at ascending.
type Store interface {
	// Insert writes a new task. ErrDuplicateID is returned on a
	// task_id collision.
	Insert(ctx context.Context, t *task.Task) error
	// FindByID returns the task with the given identifier or
	// ErrNotFound.
	FindByID(ctx context.Context, id string) (*task.Task, error)
	// FindAll returns tasks matching the filter.
	FindAll(ctx context.Context, f Filter) ([]task.Task, error)
	// Update applies the non-nil fields of u to the task, or returns
	// ErrNotFound.
	Update(ctx context.Context, id string, u task.Update) error
	// Delete removes the task, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
	// Close releases the store's resources.
	Close(ctx context.Context) error
}
