package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"taskman/internal/task"
)

// MemStore keeps tasks in memory. It backs the "memory" store driver for
// running without a MongoDB server, and doubles as the test store.
type MemStore struct {
	mu    sync.Mutex
	tasks map[string]task.Task
	order []string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{tasks: make(map[string]task.Task)}
}

// Insert writes a new task.
func (s *MemStore) Insert(_ context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.TaskID]; exists {
		return ErrDuplicateID
	}
	s.tasks[t.TaskID] = *t
	s.order = append(s.order, t.TaskID)
	return nil
}

// FindByID returns the task with the given identifier.
func (s *MemStore) FindByID(_ context.Context, id string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

// FindAll returns tasks matching the filter in insertion order, which is
// created_at ascending.
func (s *MemStore) FindAll(_ context.Context, f Filter) ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	var tasks []task.Task
	for _, id := range s.order {
		t := s.tasks[id]
		ok, err := matches(t, f, now)
		if err != nil {
			return nil, err
		}
		if ok {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// Update applies the non-nil fields of u to a task.
func (s *MemStore) Update(_ context.Context, id string, u task.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return ErrNotFound
	}
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.DueDate != nil {
		due := *u.DueDate
		t.DueDate = &due
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = task.Now()
	}
	t.UpdatedAt = u.UpdatedAt
	s.tasks[id] = t
	return nil
}

// Delete removes a task.
func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping always succeeds.
func (s *MemStore) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (s *MemStore) Close(context.Context) error {
	return nil
}

// matches mirrors the Mongo filter semantics for the in-memory store.
func matches(t task.Task, f Filter, now time.Time) (bool, error) {
	if f.Priority != nil && t.Priority != *f.Priority {
		return false, nil
	}
	if f.Status != nil && t.Status != *f.Status {
		return false, nil
	}

	switch {
	case f.Due == "":
	case strings.EqualFold(strings.TrimSpace(f.Due), "overdue"):
		if t.DueDate == nil || !t.DueDate.Before(now) {
			return false, nil
		}
	default:
		day, err := task.ParseDate(f.Due, now)
		if err != nil {
			return false, err
		}
		if t.DueDate == nil || t.DueDate.Before(day) || !t.DueDate.Before(day.AddDate(0, 0, 1)) {
			return false, nil
		}
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		needle := strings.ToLower(s)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false, nil
		}
	}
	return true, nil
}
