package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"taskman/internal/manager"
	"taskman/internal/store"
	"taskman/internal/task"
)

const replPrompt = "taskman> "

// repl holds the state of one interactive session. Input arrives on
// lines so prompts can race it against SIGINT and the context.
type repl struct {
	ctx   context.Context
	mgr   *manager.Manager
	lines <-chan string
	sigCh <-chan os.Signal
	out   io.Writer
}

// runREPL reads commands line by line until exit or EOF. Ctrl+C during
// a field prompt abandons the in-flight command; at the top-level
// prompt it only prints a hint.
func runREPL(ctx context.Context, mgr *manager.Manager, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	var scanErr error
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		scanErr = scanner.Err()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	r := &repl{
		ctx:   ctx,
		mgr:   mgr,
		lines: lines,
		sigCh: sigCh,
		out:   out,
	}

	fmt.Fprintln(out, renderBanner())

	for {
		fmt.Fprint(out, replPrompt)
		var line string
		select {
		case <-ctx.Done():
			return nil
		case <-sigCh:
			fmt.Fprintln(out, "\nUse 'exit' to quit.")
			continue
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out, "\nGoodbye!")
				return scanErr
			}
			line = strings.TrimSpace(l)
		}
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		command, args := fields[0], fields[1:]

		switch command {
		case "add":
			r.cmdAdd()
		case "list":
			r.cmdList(args)
		case "search":
			r.cmdSearch(args)
		case "update":
			r.cmdUpdate()
		case "complete":
			r.cmdComplete()
		case "delete":
			r.cmdDelete()
		case "help":
			fmt.Fprintln(r.out, renderHelp())
		case "exit", "quit":
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintf(r.out, "Unknown command: %s (try 'help')\n", command)
		}
	}
}

// prompt reads one line of input. ok is false when the command should
// be abandoned: EOF, Ctrl+C, or a cancelled context.
func (r *repl) prompt(label string) (string, bool) {
	fmt.Fprint(r.out, label)
	select {
	case <-r.ctx.Done():
		return "", false
	case <-r.sigCh:
		fmt.Fprintln(r.out, "\nCancelled.")
		return "", false
	case line, ok := <-r.lines:
		if !ok {
			fmt.Fprintln(r.out)
			return "", false
		}
		return strings.TrimSpace(line), true
	}
}

// promptValid re-prompts until validate accepts the input.
func (r *repl) promptValid(label string, validate func(string) error) (string, bool) {
	for {
		value, ok := r.prompt(label)
		if !ok {
			return "", false
		}
		if err := validate(value); err != nil {
			fmt.Fprintln(r.out, renderError(err))
			continue
		}
		return value, true
	}
}

func (r *repl) cmdAdd() {
	title, ok := r.promptValid("Title: ", func(v string) error {
		_, err := task.ValidateTitle(v)
		return err
	})
	if !ok {
		return
	}

	description, ok := r.promptValid("Description (optional): ", func(v string) error {
		_, err := task.ValidateDescription(v)
		return err
	})
	if !ok {
		return
	}

	dueDate, ok := r.promptValid("Due date (YYYY-MM-DD, today, tomorrow, ... / blank for none): ", func(v string) error {
		_, err := task.ValidateDueDate(v, task.Now())
		return err
	})
	if !ok {
		return
	}

	priority, ok := r.promptPriority()
	if !ok {
		return
	}

	t, err := r.mgr.Add(r.ctx, manager.RawTask{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
	})
	if err != nil {
		fmt.Fprintln(r.out, renderError(err))
		return
	}
	fmt.Fprintln(r.out, renderSuccess(fmt.Sprintf("Task added with ID: %s", t.TaskID)))
}

// promptPriority shows a numbered menu, blank keeps the default.
func (r *repl) promptPriority() (string, bool) {
	fmt.Fprintln(r.out, "Priority:")
	fmt.Fprintln(r.out, "  1. Low")
	fmt.Fprintln(r.out, "  2. Medium (default)")
	fmt.Fprintln(r.out, "  3. High")
	for {
		choice, ok := r.prompt("Choose (1-3 or blank): ")
		if !ok {
			return "", false
		}
		switch choice {
		case "":
			return "", true
		case "1":
			return "low", true
		case "2":
			return "medium", true
		case "3":
			return "high", true
		}
		if _, err := task.ValidatePriority(choice); err == nil {
			return choice, true
		}
		fmt.Fprintln(r.out, "Please choose 1, 2, or 3.")
	}
}

func (r *repl) cmdList(args []string) {
	filter, err := parseListArgs(args)
	if err != nil {
		fmt.Fprintln(r.out, renderError(err))
		return
	}
	tasks, err := r.mgr.List(r.ctx, filter)
	if err != nil {
		fmt.Fprintln(r.out, renderError(err))
		return
	}
	fmt.Fprintln(r.out, renderTasks(tasks))
}

func (r *repl) cmdSearch(args []string) {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(r.out, "Usage: search <text>")
		return
	}
	tasks, err := r.mgr.Search(r.ctx, text)
	if err != nil {
		fmt.Fprintln(r.out, renderError(err))
		return
	}
	fmt.Fprintln(r.out, renderTasks(tasks))
}

func (r *repl) cmdUpdate() {
	id, ok := r.prompt("Task ID: ")
	if !ok {
		return
	}
	current, err := r.mgr.Get(r.ctx, id)
	if err != nil {
		fmt.Fprintln(r.out, renderError(err))
		return
	}
	fmt.Fprintln(r.out, renderTasks([]task.Task{*current}))
	fmt.Fprintln(r.out, "Leave a field blank to keep its current value.")

	var raw manager.RawUpdate
	if v, ok := r.prompt("Title: "); !ok {
		return
	} else if v != "" {
		raw.Title = &v
	}
	if v, ok := r.prompt("Description: "); !ok {
		return
	} else if v != "" {
		raw.Description = &v
	}
	if v, ok := r.prompt("Due date: "); !ok {
		return
	} else if v != "" {
		raw.DueDate = &v
	}
	if v, ok := r.prompt("Priority (low/medium/high): "); !ok {
		return
	} else if v != "" {
		raw.Priority = &v
	}
	if v, ok := r.prompt("Status (pending/in_progress/completed): "); !ok {
		return
	} else if v != "" {
		raw.Status = &v
	}

	if err := r.mgr.Update(r.ctx, id, raw); err != nil {
		fmt.Fprintln(r.out, renderError(err))
		return
	}
	fmt.Fprintln(r.out, renderSuccess("Task updated."))
}

func (r *repl) cmdComplete() {
	id, ok := r.prompt("Task ID: ")
	if !ok {
		return
	}
	if err := r.mgr.Complete(r.ctx, id); err != nil {
		fmt.Fprintln(r.out, renderError(err))
		return
	}
	fmt.Fprintln(r.out, renderSuccess("Task marked as completed."))
}

func (r *repl) cmdDelete() {
	id, ok := r.prompt("Task ID: ")
	if !ok {
		return
	}
	confirm, ok := r.prompt(fmt.Sprintf("Delete task %s? (y/N): ", id))
	if !ok {
		return
	}
	if !strings.EqualFold(confirm, "y") && !strings.EqualFold(confirm, "yes") {
		fmt.Fprintln(r.out, "Cancelled.")
		return
	}
	if err := r.mgr.Delete(r.ctx, id); err != nil {
		fmt.Fprintln(r.out, renderError(err))
		return
	}
	fmt.Fprintln(r.out, renderSuccess("Task deleted."))
}

// parseListArgs parses the list command's filter flags.
func parseListArgs(args []string) (store.Filter, error) {
	var filter store.Filter
	for i := 0; i < len(args); i++ {
		name := args[i]
		value := ""
		if eq := strings.Index(name, "="); eq >= 0 {
			name, value = name[:eq], name[eq+1:]
		} else if i+1 < len(args) {
			i++
			value = args[i]
		}

		switch name {
		case "--priority":
			p, err := task.ValidatePriority(value)
			if err != nil {
				return store.Filter{}, err
			}
			filter.Priority = &p
		case "--due-date":
			if strings.TrimSpace(value) == "" {
				return store.Filter{}, errors.New("--due-date requires a value")
			}
			filter.Due = value
		default:
			return store.Filter{}, fmt.Errorf("unknown list option: %s", name)
		}
	}
	return filter, nil
}
