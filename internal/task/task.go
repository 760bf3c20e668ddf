// Package task defines the task record, its field constraints, and the
// validators applied to user-supplied field values.
package task

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Field constraints.
const (
	TitleMaxLen       = 200
	DescriptionMaxLen = 1000
	IDLen             = 8
)

// Priority represents a task priority, stored as an integer in the document.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

// String returns the parseable name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Label returns the display name of the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// Valid reports whether p is a known priority level.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// Status represents a task status, stored as an integer in the document.
type Status int

const (
	StatusPending Status = iota + 1
	StatusInProgress
	StatusCompleted
)

// String returns the parseable name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Label returns the display name of the status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusCompleted
}

// Task is one task record. The bson tags define the persisted document
// shape; the json tags are used for schema validation and history output.
type Task struct {
	TaskID      string     `bson:"task_id" json:"task_id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	DueDate     *time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Priority    Priority   `bson:"priority" json:"priority"`
	Status      Status     `bson:"status" json:"status"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// New builds a task from already-validated field values, populating
// defaults: priority medium, status pending, timestamps now. It performs
// no validation; that is the caller's job.
func New(title, description string, due *time.Time, priority Priority, status Status) *Task {
	if priority == 0 {
		priority = PriorityMedium
	}
	if status == 0 {
		status = StatusPending
	}
	now := Now()
	return &Task{
		Title:       title,
		Description: description,
		DueDate:     due,
		Priority:    priority,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

var (
	nowMu   sync.Mutex
	lastNow time.Time
)

// Now returns the current UTC time at millisecond precision, the
// resolution of a MongoDB datetime. Successive calls return strictly
// increasing values, so back-to-back mutations never stamp an equal
// updated_at.
func Now() time.Time {
	nowMu.Lock()
	defer nowMu.Unlock()
	now := time.Now().UTC().Truncate(time.Millisecond)
	if !now.After(lastNow) {
		now = lastNow.Add(time.Millisecond)
	}
	lastNow = now
	return now
}

// NewID generates an 8-character task identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:IDLen]
}

// IsCompleted reports whether the task has been completed.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsOverdue reports whether the task's due date has passed as of now.
// Tasks without a due date are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return now.After(*t.DueDate)
}

// DaysUntilDue returns the number of calendar days until the due date,
// negative if the due date has passed and zero if no due date is set.
func (t *Task) DaysUntilDue(now time.Time) int {
	if t.DueDate == nil {
		return 0
	}
	due := startOfDay(*t.DueDate)
	today := startOfDay(now)
	return int(due.Sub(today).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Update describes a partial change to a task. Nil fields are left
// untouched; UpdatedAt is always written.
type Update struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *Priority
	Status      *Status
	UpdatedAt   time.Time
}

// Empty reports whether the update carries no field changes.
func (u Update) Empty() bool {
	return u.Title == nil && u.Description == nil && u.DueDate == nil &&
		u.Priority == nil && u.Status == nil
}
