package task

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Constraint violations reported by the validators.
var (
	ErrTitleEmpty         = errors.New("title cannot be empty")
	ErrTitleTooLong       = errors.New("title cannot exceed 200 characters")
	ErrDescriptionTooLong = errors.New("description cannot exceed 1000 characters")
	ErrInvalidDate        = errors.New("invalid date format")
	ErrInvalidPriority    = errors.New("invalid priority, must be one of: low, medium, high")
	ErrInvalidStatus      = errors.New("invalid status, must be one of: pending, in_progress, completed")
	ErrInvalidTaskID      = errors.New("task ID must be 8 alphanumeric characters")
)

// ValidationError names the field whose constraint was violated.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

// Unwrap returns the underlying constraint error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

var taskIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{8}$`)

// ValidateTitle checks a raw title and returns it trimmed.
func ValidateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", &ValidationError{Field: "title", Err: ErrTitleEmpty}
	}
	if utf8.RuneCountInString(title) > TitleMaxLen {
		return "", &ValidationError{Field: "title", Err: ErrTitleTooLong}
	}
	return title, nil
}

// ValidateDescription checks a raw description and returns it trimmed.
// An empty description is valid.
func ValidateDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)
	if utf8.RuneCountInString(description) > DescriptionMaxLen {
		return "", &ValidationError{Field: "description", Err: ErrDescriptionTooLong}
	}
	return description, nil
}

// ValidateDueDate parses a raw due date relative to now. An empty input
// is valid and yields no due date.
func ValidateDueDate(raw string, now time.Time) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	due, err := ParseDate(raw, now)
	if err != nil {
		return nil, &ValidationError{Field: "due_date", Err: ErrInvalidDate}
	}
	return &due, nil
}

// ValidatePriority parses a raw priority name.
func ValidatePriority(raw string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return 0, &ValidationError{Field: "priority", Err: ErrInvalidPriority}
	}
}

// ValidateStatus parses a raw status name.
func ValidateStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending, nil
	case "in_progress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return 0, &ValidationError{Field: "status", Err: ErrInvalidStatus}
	}
}

// ValidateTaskID checks a raw task identifier and returns it trimmed.
func ValidateTaskID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if !taskIDPattern.MatchString(id) {
		return "", &ValidationError{Field: "task_id", Err: ErrInvalidTaskID}
	}
	return id, nil
}
