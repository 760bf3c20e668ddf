// Package manager orchestrates validated task input into persistence
// gateway calls.
package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"taskman/internal/history"
	"taskman/internal/store"
	"taskman/internal/task"
)

// maxIDAttempts bounds ID regeneration on collision.
const maxIDAttempts = 5

// Manager coordinates task operations against an injected store. It
// keeps no task state between calls; every operation is an independent
// transaction.
type Manager struct {
	store  store.Store
	logger *log.Logger
	hist   *history.Log
}

// New creates a Manager. hist may be nil to disable operation history.
func New(s store.Store, logger *log.Logger, hist *history.Log) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{store: s, logger: logger, hist: hist}
}

// RawTask carries unvalidated field input for a new task. Empty optional
// fields take their defaults.
type RawTask struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
}

// RawUpdate carries unvalidated field input for a partial update. Nil
// fields are left unchanged.
type RawUpdate struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
	Status      *string
}

// Add validates every supplied field, builds a task with a fresh unique
// identifier, and inserts it. On any validation failure the store is
// never contacted.
func (m *Manager) Add(ctx context.Context, raw RawTask) (*task.Task, error) {
	title, err := task.ValidateTitle(raw.Title)
	if err != nil {
		return nil, err
	}
	description, err := task.ValidateDescription(raw.Description)
	if err != nil {
		return nil, err
	}
	due, err := task.ValidateDueDate(raw.DueDate, time.Now())
	if err != nil {
		return nil, err
	}

	var priority task.Priority
	if strings.TrimSpace(raw.Priority) != "" {
		priority, err = task.ValidatePriority(raw.Priority)
		if err != nil {
			return nil, err
		}
	}
	var status task.Status
	if strings.TrimSpace(raw.Status) != "" {
		status, err = task.ValidateStatus(raw.Status)
		if err != nil {
			return nil, err
		}
	}

	t := task.New(title, description, due, priority, status)
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		t.TaskID = task.NewID()
		err = m.store.Insert(ctx, t)
		if !errors.Is(err, store.ErrDuplicateID) {
			break
		}
		m.logger.Warn("task ID collision, regenerating", "task_id", t.TaskID)
	}
	if err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return nil, fmt.Errorf("generate task ID: %w", err)
		}
		return nil, err
	}

	m.logger.Debug("task added", "task_id", t.TaskID, "title", t.Title)
	m.record("add", t.TaskID, map[string]string{"title": t.Title})
	return t, nil
}

// Get returns a single task by identifier.
func (m *Manager) Get(ctx context.Context, id string) (*task.Task, error) {
	id, err := task.ValidateTaskID(id)
	if err != nil {
		return nil, err
	}
	return m.store.FindByID(ctx, id)
}

// List returns tasks matching the filter in store order, which is
// created_at ascending.
func (m *Manager) List(ctx context.Context, f store.Filter) ([]task.Task, error) {
	return m.store.FindAll(ctx, f)
}

// Search returns tasks whose title or description contains text,
// case-insensitively.
func (m *Manager) Search(ctx context.Context, text string) ([]task.Task, error) {
	return m.store.FindAll(ctx, store.Filter{Search: strings.TrimSpace(text)})
}

// Update validates the supplied fields only and applies them as a
// partial update, refreshing updated_at.
func (m *Manager) Update(ctx context.Context, id string, raw RawUpdate) error {
	id, err := task.ValidateTaskID(id)
	if err != nil {
		return err
	}

	u := task.Update{UpdatedAt: task.Now()}
	changed := map[string]string{}
	if raw.Title != nil {
		title, err := task.ValidateTitle(*raw.Title)
		if err != nil {
			return err
		}
		u.Title = &title
		changed["title"] = title
	}
	if raw.Description != nil {
		description, err := task.ValidateDescription(*raw.Description)
		if err != nil {
			return err
		}
		u.Description = &description
		changed["description"] = description
	}
	if raw.DueDate != nil {
		due, err := task.ValidateDueDate(*raw.DueDate, time.Now())
		if err != nil {
			return err
		}
		if due != nil {
			u.DueDate = due
			changed["due_date"] = task.FormatDate(due)
		}
	}
	if raw.Priority != nil {
		priority, err := task.ValidatePriority(*raw.Priority)
		if err != nil {
			return err
		}
		u.Priority = &priority
		changed["priority"] = priority.String()
	}
	if raw.Status != nil {
		status, err := task.ValidateStatus(*raw.Status)
		if err != nil {
			return err
		}
		u.Status = &status
		changed["status"] = status.String()
	}

	if err := m.store.Update(ctx, id, u); err != nil {
		return err
	}
	m.logger.Debug("task updated", "task_id", id)
	m.record("update", id, changed)
	return nil
}

// Complete marks a task completed, refreshing updated_at.
func (m *Manager) Complete(ctx context.Context, id string) error {
	id, err := task.ValidateTaskID(id)
	if err != nil {
		return err
	}

	status := task.StatusCompleted
	u := task.Update{Status: &status, UpdatedAt: task.Now()}
	if err := m.store.Update(ctx, id, u); err != nil {
		return err
	}
	m.logger.Debug("task completed", "task_id", id)
	m.record("complete", id, nil)
	return nil
}

// Delete removes a task.
func (m *Manager) Delete(ctx context.Context, id string) error {
	id, err := task.ValidateTaskID(id)
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.logger.Debug("task deleted", "task_id", id)
	m.record("delete", id, nil)
	return nil
}

// record appends a history entry. History is best effort and never
// fails the operation.
func (m *Manager) record(op, taskID string, fields map[string]string) {
	if m.hist == nil {
		return
	}
	rec := history.Record{Op: op, TaskID: taskID, Fields: fields}
	if err := m.hist.Append(rec); err != nil {
		m.logger.Warn("history write failed", "op", op, "err", err)
	}
}
