package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/stackdio/console/config"
	"github.com/stackdio/console/internal/bootstrap"
	"github.com/stackdio/console/internal/core"
	"github.com/stackdio/console/internal/domain/model"
	"github.com/stackdio/console/internal/screens"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
}

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger := bootstrap.InitLogger(config.ObservabilityConfig{})
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger := bootstrap.InitLogger(cfg.Observability)

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"screens": {
			name:        "screens",
			description: "List the available list screens",
			run:         runScreens,
		},
		"list": {
			name:        "list",
			description: "Print one page of a list screen",
			run:         runList,
		},
		"watch": {
			name:        "watch",
			description: "Print a list screen every time it refreshes",
			run:         runWatch,
		},
		"show": {
			name:        "show",
			description: "Print the detail document of one object",
			run:         runShow,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: stackdio-console <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := commands()[name]
		if err := writef(w, "  %-10s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

// session bundles an opened screen with the console that backs it.
type session struct {
	screens.Session

	console  *bootstrap.Console
	recorder *errorRecorder
}

func (s *session) Close(logger *slog.Logger) {
	s.Dispose()
	if err := s.console.Close(); err != nil {
		logger.Warn("close console failed", "error", err)
	}
}

// openSession wires the console and opens name. The session is not initialized.
func openSession(cmdCtx *commandContext, name string, opts screens.OpenOptions) (*session, error) {
	screen, err := screens.Lookup(name)
	if err != nil {
		return nil, err
	}

	console, err := bootstrap.BuildConsole(cmdCtx.Ctx, bootstrap.ConsoleDeps{
		Config: &cmdCtx.Config,
		Logger: cmdCtx.Logger,
		Out:    cmdCtx.Out,
	})
	if err != nil {
		return nil, err
	}

	deps := console.Deps()
	recorder := &errorRecorder{PageFetcher: deps.Fetcher}
	deps.Fetcher = recorder

	if opts.RefreshInterval == 0 {
		opts.RefreshInterval = cmdCtx.Config.List.RefreshInterval
	}
	opts.Advanced = opts.Advanced || cmdCtx.Config.List.AdvancedView

	sess, err := screen.Open(deps, opts)
	if err != nil {
		if cerr := console.Close(); cerr != nil {
			cmdCtx.Logger.Warn("close console failed", "error", cerr)
		}
		return nil, err
	}
	return &session{Session: sess, console: console, recorder: recorder}, nil
}

// errorRecorder remembers the outcome of the latest page fetch.
// List screens swallow fetch failures; one-shot commands still need to report them.
type errorRecorder struct {
	core.PageFetcher

	mu  sync.Mutex
	err error
}

func (r *errorRecorder) FetchPage(ctx context.Context, url string) (model.Page, error) {
	page, err := r.PageFetcher.FetchPage(ctx, url)
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
	return page, err
}

func (r *errorRecorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
