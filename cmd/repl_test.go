package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"taskman/internal/manager"
	"taskman/internal/store"
	"taskman/internal/task"
)

func TestParseListArgs(t *testing.T) {
	high := task.PriorityHigh

	tests := []struct {
		name    string
		args    []string
		want    store.Filter
		wantErr bool
	}{
		{"empty", nil, store.Filter{}, false},
		{"priority", []string{"--priority", "high"}, store.Filter{Priority: &high}, false},
		{"priority equals form", []string{"--priority=high"}, store.Filter{Priority: &high}, false},
		{"due date", []string{"--due-date", "today"}, store.Filter{Due: "today"}, false},
		{"overdue", []string{"--due-date", "overdue"}, store.Filter{Due: "overdue"}, false},
		{"both", []string{"--priority", "high", "--due-date", "2026-09-01"}, store.Filter{Priority: &high, Due: "2026-09-01"}, false},
		{"bad priority", []string{"--priority", "urgent"}, store.Filter{}, true},
		{"missing due value", []string{"--due-date"}, store.Filter{}, true},
		{"unknown option", []string{"--status", "pending"}, store.Filter{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseListArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Due != tt.want.Due {
				t.Errorf("Due: got %q, want %q", got.Due, tt.want.Due)
			}
			switch {
			case got.Priority == nil && tt.want.Priority != nil:
				t.Error("Priority: got nil")
			case got.Priority != nil && tt.want.Priority == nil:
				t.Errorf("Priority: got %v, want nil", *got.Priority)
			case got.Priority != nil && *got.Priority != *tt.want.Priority:
				t.Errorf("Priority: got %v, want %v", *got.Priority, *tt.want.Priority)
			}
		})
	}
}

func newTestREPL(t *testing.T) (*manager.Manager, *store.MemStore) {
	t.Helper()
	s := store.NewMemStore()
	return manager.New(s, log.New(io.Discard), nil), s
}

func runSession(t *testing.T, mgr *manager.Manager, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := runREPL(context.Background(), mgr, strings.NewReader(input), &out); err != nil {
		t.Fatalf("runREPL: %v", err)
	}
	return out.String()
}

func TestREPLAddAndList(t *testing.T) {
	mgr, s := newTestREPL(t)

	// add: title, description, due date, priority choice; then list; exit.
	input := strings.Join([]string{
		"add",
		"Buy groceries",
		"milk and eggs",
		"",
		"3",
		"list",
		"exit",
	}, "\n") + "\n"

	out := runSession(t, mgr, input)
	if !strings.Contains(out, "Task added with ID:") {
		t.Errorf("missing add confirmation:\n%s", out)
	}
	if !strings.Contains(out, "Buy groceries") {
		t.Errorf("list output missing task:\n%s", out)
	}

	tasks, err := s.FindAll(context.Background(), store.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 {
		t.Fatalf("stored tasks: got %d, want 1", len(tasks))
	}
	if tasks[0].Priority != task.PriorityHigh {
		t.Errorf("Priority: got %v, want high", tasks[0].Priority)
	}
}

func TestREPLAddRepromptsOnEmptyTitle(t *testing.T) {
	mgr, _ := newTestREPL(t)

	input := strings.Join([]string{
		"add",
		"",        // rejected
		"Real title",
		"",
		"",
		"",
		"exit",
	}, "\n") + "\n"

	out := runSession(t, mgr, input)
	if !strings.Contains(out, "Validation error") {
		t.Errorf("missing validation message:\n%s", out)
	}
	if !strings.Contains(out, "Task added with ID:") {
		t.Errorf("task should still be added after re-prompt:\n%s", out)
	}
}

func TestREPLCompleteAndDelete(t *testing.T) {
	mgr, s := newTestREPL(t)

	added, err := mgr.Add(context.Background(), manager.RawTask{Title: "victim"})
	if err != nil {
		t.Fatal(err)
	}

	input := strings.Join([]string{
		"complete",
		added.TaskID,
		"delete",
		added.TaskID,
		"y",
		"exit",
	}, "\n") + "\n"

	out := runSession(t, mgr, input)
	if !strings.Contains(out, "marked as completed") {
		t.Errorf("missing complete confirmation:\n%s", out)
	}
	if !strings.Contains(out, "Task deleted.") {
		t.Errorf("missing delete confirmation:\n%s", out)
	}

	if _, err := s.FindByID(context.Background(), added.TaskID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("task should be gone, got %v", err)
	}
}

func TestREPLDeleteDeclined(t *testing.T) {
	mgr, s := newTestREPL(t)

	added, err := mgr.Add(context.Background(), manager.RawTask{Title: "survivor"})
	if err != nil {
		t.Fatal(err)
	}

	input := strings.Join([]string{
		"delete",
		added.TaskID,
		"n",
		"exit",
	}, "\n") + "\n"

	out := runSession(t, mgr, input)
	if !strings.Contains(out, "Cancelled.") {
		t.Errorf("missing cancellation:\n%s", out)
	}
	if _, err := s.FindByID(context.Background(), added.TaskID); err != nil {
		t.Errorf("task should survive, got %v", err)
	}
}

func TestREPLUnknownCommand(t *testing.T) {
	mgr, _ := newTestREPL(t)
	out := runSession(t, mgr, "frobnicate\nexit\n")
	if !strings.Contains(out, "Unknown command: frobnicate") {
		t.Errorf("missing unknown-command message:\n%s", out)
	}
}

func TestREPLSearch(t *testing.T) {
	mgr, _ := newTestREPL(t)
	ctx := context.Background()
	for _, title := range []string{"Team meeting", "Buy groceries"} {
		if _, err := mgr.Add(ctx, manager.RawTask{Title: title}); err != nil {
			t.Fatal(err)
		}
	}

	out := runSession(t, mgr, "search MEETING\nexit\n")
	if !strings.Contains(out, "Team meeting") {
		t.Errorf("search should match case-insensitively:\n%s", out)
	}
	if strings.Contains(out, "Buy groceries") {
		t.Errorf("unmatched task should not appear:\n%s", out)
	}

	out = runSession(t, mgr, "search\nexit\n")
	if !strings.Contains(out, "Usage: search <text>") {
		t.Errorf("missing usage hint:\n%s", out)
	}
}

func TestInterruptAbandonsCommand(t *testing.T) {
	mgr, s := newTestREPL(t)
	lines := make(chan string)
	sigCh := make(chan os.Signal, 1)
	var out bytes.Buffer
	r := &repl{
		ctx:   context.Background(),
		mgr:   mgr,
		lines: lines,
		sigCh: sigCh,
		out:   &out,
	}

	sigCh <- os.Interrupt
	r.cmdAdd()

	if !strings.Contains(out.String(), "Cancelled.") {
		t.Errorf("missing cancellation message:\n%s", out.String())
	}
	tasks, err := s.FindAll(context.Background(), store.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 0 {
		t.Errorf("abandoned add should not insert, got %d tasks", len(tasks))
	}
}

func TestInterruptMidSequenceAbandonsCommand(t *testing.T) {
	mgr, s := newTestREPL(t)
	lines := make(chan string)
	sigCh := make(chan os.Signal)
	var out bytes.Buffer
	r := &repl{
		ctx:   context.Background(),
		mgr:   mgr,
		lines: lines,
		sigCh: sigCh,
		out:   &out,
	}

	// Title is accepted, then Ctrl+C arrives at the description prompt.
	done := make(chan struct{})
	go func() {
		r.cmdAdd()
		close(done)
	}()
	lines <- "Valid title"
	sigCh <- os.Interrupt
	<-done

	if !strings.Contains(out.String(), "Cancelled.") {
		t.Errorf("missing cancellation message:\n%s", out.String())
	}
	tasks, err := s.FindAll(context.Background(), store.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 0 {
		t.Errorf("abandoned add should not insert, got %d tasks", len(tasks))
	}
}

func TestREPLExitsOnEOF(t *testing.T) {
	mgr, _ := newTestREPL(t)
	out := runSession(t, mgr, "")
	if !strings.Contains(out, "Goodbye!") {
		t.Errorf("missing goodbye on EOF:\n%s", out)
	}
}
