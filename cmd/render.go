package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"taskman/internal/store"
	"taskman/internal/task"
	"taskman/internal/utils"
)

const (
	titleColWidth       = 30
	descriptionColWidth = 40
)

var (
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

func renderBanner() string {
	var b strings.Builder
	b.WriteString(bannerStyle.Render("Taskman - Task Management System") + "\n")
	b.WriteString("Type 'help' for available commands, 'exit' to quit.")
	return b.String()
}

func renderHelp() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	b.WriteString("  add                                    Add a new task\n")
	b.WriteString("  list [--priority <low|medium|high>]\n")
	b.WriteString("       [--due-date <today|overdue|YYYY-MM-DD>]\n")
	b.WriteString("                                         List tasks\n")
	b.WriteString("  search <text>                          Search title and description\n")
	b.WriteString("  update                                 Update a task's fields\n")
	b.WriteString("  complete                               Mark a task as completed\n")
	b.WriteString("  delete                                 Delete a task\n")
	b.WriteString("  help                                   Show this message\n")
	b.WriteString("  exit                                   Quit")
	return b.String()
}

func renderSuccess(msg string) string {
	return successStyle.Render(msg)
}

// renderError maps the failure taxonomy to user-facing messages.
func renderError(err error) string {
	var validationErr *task.ValidationError
	if errors.As(err, &validationErr) {
		return warnStyle.Render("Validation error: " + validationErr.Error())
	}
	if errors.Is(err, store.ErrNotFound) {
		return warnStyle.Render("Task not found.")
	}
	var connErr *store.ConnectionError
	if errors.As(err, &connErr) {
		return errorStyle.Render("Database connection error: " + connErr.Error())
	}
	return errorStyle.Render("Error: " + err.Error())
}

// renderStartupError explains store failures that prevent the CLI from
// starting at all.
func renderStartupError(err error) error {
	var connErr *store.ConnectionError
	if errors.As(err, &connErr) {
		return fmt.Errorf("cannot reach the database: %w (is MongoDB running? try -driver memory)", err)
	}
	return err
}

// renderTasks draws the task grid.
func renderTasks(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found."
	}

	now := time.Now()
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("ID", "Title", "Description", "Due Date", "Priority", "Status", "Created", "Overdue")

	for i := range tasks {
		t := &tasks[i]
		tbl.Row(
			t.TaskID,
			utils.Truncate(t.Title, titleColWidth),
			utils.Truncate(t.Description, descriptionColWidth),
			task.FormatDate(t.DueDate),
			t.Priority.Label(),
			t.Status.Label(),
			t.CreatedAt.Format("2006-01-02"),
			overdueMarker(t, now),
		)
	}

	return fmt.Sprintf("%s\n%d task(s).", tbl, len(tasks))
}

func overdueMarker(t *task.Task, now time.Time) string {
	if t.IsOverdue(now) {
		return "yes"
	}
	return ""
}
