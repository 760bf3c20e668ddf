// Package ui provides the optional terminal task browser.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskman/internal/manager"
	"taskman/internal/store"
	"taskman/internal/task"
	"taskman/internal/utils"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Run starts the task browser. It refreshes from the store on a timer
// and supports filtering by status.
func Run(ctx context.Context, mgr *manager.Manager) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newModel(ctx, mgr)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type model struct {
	ctx          context.Context
	mgr          *manager.Manager
	tasks        []task.Task
	loadErr      error
	filter       *task.Status
	showHelp     bool
	tickInterval time.Duration
}

type tickMsg time.Time

type loadedMsg struct {
	tasks []task.Task
	err   error
}

func newModel(ctx context.Context, mgr *manager.Manager) *model {
	return &model{
		ctx:          ctx,
		mgr:          mgr,
		tickInterval: 5 * time.Second,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), tickCmd(m.tickInterval))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			return m, m.loadCmd()
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "1":
			return m, m.setFilter(task.StatusPending)
		case "2":
			return m, m.setFilter(task.StatusInProgress)
		case "3":
			return m, m.setFilter(task.StatusCompleted)
		case "0", "a":
			m.filter = nil
			return m, m.loadCmd()
		}
	case tickMsg:
		return m, tea.Batch(m.loadCmd(), tickCmd(m.tickInterval))
	case loadedMsg:
		m.tasks = msg.tasks
		m.loadErr = msg.err
	}
	return m, nil
}

func (m *model) setFilter(s task.Status) tea.Cmd {
	m.filter = &s
	return m.loadCmd()
}

func (m *model) loadCmd() tea.Cmd {
	filter := store.Filter{Status: m.filter}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, 5*time.Second)
		defer cancel()
		tasks, err := m.mgr.List(ctx, filter)
		return loadedMsg{tasks: tasks, err: err}
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Taskman") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.filter != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Filter: %s (0 to clear)", m.filter.Label())) + "\n\n")
	}

	if m.loadErr != nil {
		b.WriteString("Error loading tasks:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeOverview(&b, m.tasks)
	writeTasks(&b, m.tasks)
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func writeOverview(b *strings.Builder, tasks []task.Task) {
	counts := map[task.Status]int{}
	for _, t := range tasks {
		counts[t.Status]++
	}
	b.WriteString(sectionStyle.Render("Overview") + "\n\n")
	b.WriteString(fmt.Sprintf("  Pending: %d  In Progress: %d  Completed: %d\n\n",
		counts[task.StatusPending],
		counts[task.StatusInProgress],
		counts[task.StatusCompleted],
	))
}

func writeTasks(b *strings.Builder, tasks []task.Task) {
	b.WriteString(sectionStyle.Render("Tasks") + "\n\n")
	if len(tasks) == 0 {
		b.WriteString("  No tasks.\n\n")
		return
	}
	now := time.Now()
	for i := range tasks {
		b.WriteString(formatTask(&tasks[i], now))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func formatTask(t *task.Task, now time.Time) string {
	icon := " "
	switch t.Status {
	case task.StatusInProgress:
		icon = ">"
	case task.StatusCompleted:
		icon = "x"
	}

	line := fmt.Sprintf("  %s [%s] (%s) %s", icon, t.TaskID, t.Priority.Label(), utils.Truncate(t.Title, 50))
	if t.DueDate != nil {
		line += dimStyle.Render("  due " + task.FormatDate(t.DueDate))
	}
	switch {
	case t.IsCompleted():
		return doneStyle.Render(line)
	case t.IsOverdue(now):
		return overdueStyle.Render(line)
	}
	return line
}

func writeHelp(b *strings.Builder) {
	b.WriteString(sectionStyle.Render("Keyboard Shortcuts") + "\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Show pending tasks\n")
	b.WriteString("  2            Show in-progress tasks\n")
	b.WriteString("  3            Show completed tasks\n")
	b.WriteString("  a, 0         Show all tasks\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(dimStyle.Render(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s", interval)) + "\n")
}

// IsTTY returns true if the writer is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
