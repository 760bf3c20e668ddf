package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskman/internal/task"
)

func insertTask(t *testing.T, s *MemStore, id, title, description string, due *time.Time, prio task.Priority) task.Task {
	t.Helper()
	tk := task.New(title, description, due, prio, 0)
	tk.TaskID = id
	if err := s.Insert(context.Background(), tk); err != nil {
		t.Fatalf("Insert %s: %v", id, err)
	}
	return *tk
}

func TestMemStoreInsertDuplicate(t *testing.T) {
	s := NewMemStore()
	insertTask(t, s, "a1b2c3d4", "first", "", nil, 0)

	dup := task.New("second", "", nil, 0, 0)
	dup.TaskID = "a1b2c3d4"
	if err := s.Insert(context.Background(), dup); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate insert: got %v, want %v", err, ErrDuplicateID)
	}
}

func TestMemStoreFindByID(t *testing.T) {
	s := NewMemStore()
	want := insertTask(t, s, "a1b2c3d4", "find me", "", nil, 0)

	got, err := s.FindByID(context.Background(), "a1b2c3d4")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Title != want.Title {
		t.Errorf("Title: got %q, want %q", got.Title, want.Title)
	}

	if _, err := s.FindByID(context.Background(), "missing1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing ID: got %v, want %v", err, ErrNotFound)
	}
}

func TestMemStoreFindAllOrder(t *testing.T) {
	s := NewMemStore()
	insertTask(t, s, "task0001", "first", "", nil, 0)
	insertTask(t, s, "task0002", "second", "", nil, 0)
	insertTask(t, s, "task0003", "third", "", nil, 0)

	tasks, err := s.FindAll(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("count: got %d, want 3", len(tasks))
	}
	for i, want := range []string{"task0001", "task0002", "task0003"} {
		if tasks[i].TaskID != want {
			t.Errorf("tasks[%d]: got %s, want %s", i, tasks[i].TaskID, want)
		}
	}
}

func TestMemStoreFilterPriority(t *testing.T) {
	s := NewMemStore()
	insertTask(t, s, "task0001", "low one", "", nil, task.PriorityLow)
	insertTask(t, s, "task0002", "high one", "", nil, task.PriorityHigh)
	insertTask(t, s, "task0003", "high two", "", nil, task.PriorityHigh)

	prio := task.PriorityHigh
	tasks, err := s.FindAll(context.Background(), Filter{Priority: &prio})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("count: got %d, want 2", len(tasks))
	}
	for _, tk := range tasks {
		if tk.Priority != task.PriorityHigh {
			t.Errorf("task %s has priority %v", tk.TaskID, tk.Priority)
		}
	}
}

func TestMemStoreFilterDue(t *testing.T) {
	s := NewMemStore()
	now := time.Now().UTC()
	day, err := task.ParseDate("today", now)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	today := day.AddDate(0, 0, 1).Add(-time.Millisecond) // end of today, not yet overdue
	yesterday := now.AddDate(0, 0, -1)
	nextWeek := now.AddDate(0, 0, 7)

	insertTask(t, s, "task0001", "due soon", "", &today, 0)
	insertTask(t, s, "task0002", "past due", "", &yesterday, 0)
	insertTask(t, s, "task0003", "far out", "", &nextWeek, 0)
	insertTask(t, s, "task0004", "no due date", "", nil, 0)

	tasks, err := s.FindAll(context.Background(), Filter{Due: "today"})
	if err != nil {
		t.Fatalf("FindAll today: %v", err)
	}
	if len(tasks) != 1 || tasks[0].TaskID != "task0001" {
		t.Errorf("today: got %v", taskIDs(tasks))
	}

	tasks, err = s.FindAll(context.Background(), Filter{Due: "overdue"})
	if err != nil {
		t.Fatalf("FindAll overdue: %v", err)
	}
	if len(tasks) != 1 || tasks[0].TaskID != "task0002" {
		t.Errorf("overdue: got %v", taskIDs(tasks))
	}

	if _, err := s.FindAll(context.Background(), Filter{Due: "whenever"}); err == nil {
		t.Error("expected an error for an unparseable due filter")
	}
}

func TestMemStoreFilterSearch(t *testing.T) {
	s := NewMemStore()
	insertTask(t, s, "task0001", "Team meeting", "", nil, 0)
	insertTask(t, s, "task0002", "Write summary", "collect meeting notes", nil, 0)
	insertTask(t, s, "task0003", "Buy groceries", "", nil, 0)

	tasks, err := s.FindAll(context.Background(), Filter{Search: "MEETING"})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("count: got %d, want 2: %v", len(tasks), taskIDs(tasks))
	}
	if tasks[0].TaskID != "task0001" || tasks[1].TaskID != "task0002" {
		t.Errorf("got %v", taskIDs(tasks))
	}
}

func TestMemStoreUpdate(t *testing.T) {
	s := NewMemStore()
	insertTask(t, s, "a1b2c3d4", "original", "original description", nil, 0)

	title := "changed"
	stamp := task.Now().Add(time.Minute)
	err := s.Update(context.Background(), "a1b2c3d4", task.Update{Title: &title, UpdatedAt: stamp})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.FindByID(context.Background(), "a1b2c3d4")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Title != "changed" {
		t.Errorf("Title: got %q, want %q", got.Title, "changed")
	}
	if got.Description != "original description" {
		t.Errorf("Description changed without being supplied: %q", got.Description)
	}
	if !got.UpdatedAt.Equal(stamp) {
		t.Errorf("UpdatedAt: got %v, want %v", got.UpdatedAt, stamp)
	}

	err = s.Update(context.Background(), "missing1", task.Update{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing ID: got %v, want %v", err, ErrNotFound)
	}
}

func TestMemStoreDelete(t *testing.T) {
	s := NewMemStore()
	insertTask(t, s, "a1b2c3d4", "doomed", "", nil, 0)

	if err := s.Delete(context.Background(), "a1b2c3d4"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.FindByID(context.Background(), "a1b2c3d4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: got %v, want %v", err, ErrNotFound)
	}
	if err := s.Delete(context.Background(), "a1b2c3d4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want %v", err, ErrNotFound)
	}
}

func taskIDs(tasks []task.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.TaskID
	}
	return ids
}
