// Package cmd implements the CLI command structure for taskman.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"taskman/internal/config"
	"taskman/internal/history"
	"taskman/internal/logging"
	"taskman/internal/manager"
	"taskman/internal/store"
	"taskman/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskman CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskman", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	logger := logging.New(cfg.Log)

	// Determine the subcommand. No args or a leading flag means "repl".
	subcommand := "repl"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "repl":
		return replCommand(ctx, cfg, logger, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, logger, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, cfg, remainingArgs)
	case "tail":
		return tailCommand(cfg, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openStore connects the configured store driver.
func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		logger.Debug("using in-memory store")
		return store.NewMemStore(), nil
	default:
		logger.Debug("connecting", "uri", cfg.Store.URI, "database", cfg.Store.Database)
		s, err := store.Open(ctx, cfg.Store.URI, cfg.Store.Database, cfg.Store.Collection, cfg.Store.Timeout())
		if err != nil {
			return nil, err
		}
		logger.Debug("connected", "collection", cfg.Store.Collection)
		return s, nil
	}
}

// newManager wires the store, history log, and logger together.
func newManager(ctx context.Context, cfg *config.Config, logger *log.Logger) (*manager.Manager, store.Store, error) {
	s, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var hist *history.Log
	if cfg.History {
		hist, err = history.Open(cfg.HistoryDir)
		if err != nil {
			logger.Warn("history disabled", "err", err)
			hist = nil
		}
	}

	return manager.New(s, logger, hist), s, nil
}

// replCommand starts the interactive shell.
func replCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	mgr, s, err := newManager(ctx, cfg, logger)
	if err != nil {
		return renderStartupError(err)
	}
	defer s.Close(context.Background())

	return runREPL(ctx, mgr, os.Stdin, os.Stdout)
}

// tuiCommand launches the task browser.
func tuiCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	mgr, s, err := newManager(ctx, cfg, logger)
	if err != nil {
		return renderStartupError(err)
	}
	defer s.Close(context.Background())

	return ui.Run(ctx, mgr)
}

// tailCommand tails the history log.
func tailCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskman tail", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}

	var path string
	if len(remaining) == 1 {
		path = remaining[0]
	} else {
		hist, err := history.Open(cfg.HistoryDir)
		if err != nil {
			return fmt.Errorf("opening history dir: %w", err)
		}
		path, err = hist.Latest()
		if err != nil {
			return fmt.Errorf("finding latest history file: %w", err)
		}
	}

	if path == "" {
		fmt.Println("No history files found.")
		return nil
	}

	fmt.Printf("Tailing: %s\n", path)
	if *follow {
		fmt.Println("(Ctrl+C to stop)")
	}
	fmt.Println()

	return history.Tail(os.Stdout, path, *n, *follow)
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("taskman version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Taskman - An interactive task manager backed by MongoDB")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskman [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  repl          Start the interactive shell (default command)")
	fmt.Fprintln(w, "  tui           Launch the terminal task browser")
	fmt.Fprintln(w, "  doctor        Check connectivity, indexes, and document validity")
	fmt.Fprintln(w, "  tail          Tail the operation history log")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
