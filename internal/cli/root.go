// Package cli is the tada command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// App carries what every command needs once flags are parsed.
type App struct {
	Config config.Config
	Logger *slog.Logger

	url      string
	theme    string
	logLevel string
	color    bool
	noColor  bool
}

type usageError struct {
	msg  string
	hint string
}

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// usageArgs makes argument validation failures usage errors.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return usageError{msg: err.Error()}
		}
		return nil
	}
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var u usageError
	if errors.As(err, &u) || strings.HasPrefix(err.Error(), "unknown command") {
		return ExitUsage
	}
	return ExitError
}

// Execute runs the command tree with args and returns the exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	ui.SetOutput(stdout, stderr)
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		ui.Fail(err.Error())
		var u usageError
		if errors.As(err, &u) && u.hint != "" {
			ui.Hint(u.hint)
		}
	}
	return ExitCode(err)
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "tada",
		Short:         "A tiny todo list with a web page, a terminal UI and scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Run the development resource server
  tada serve --backend sqlite --data todos.db

  # Open the list in a browser
  tada web --addr 127.0.0.1:8080

  # Or in the terminal
  tada tui

  # Scripted use
  tada add "Buy milk"
  tada ls --group
  tada done 3
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
			return app.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&app.url, "url", "", "Task collection URL (env TADA_URL)")
	cmd.PersistentFlags().StringVar(&app.theme, "theme", "", "Output theme: classic|neon|mono (env TADA_THEME)")
	cmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Log level: debug|info|warn|error (env TADA_LOG_LEVEL)")
	cmd.PersistentFlags().BoolVar(&app.color, "color", false, "Force coloured output")
	cmd.PersistentFlags().BoolVar(&app.noColor, "no-color", false, "Disable coloured output")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newEditCmd(app))

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})
	return cmd
}

// load reads the environment, applies flag overrides and sets up output.
func (app *App) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.BaseURL = app.url
	}
	if flags.Changed("theme") {
		cfg.Theme = app.theme
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = app.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return usageError{msg: err.Error()}
	}
	app.Config = cfg

	ui.SetColorForcing(app.color, app.noColor)
	ui.SetTheme(cfg.Theme)
	app.Logger = config.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
	return nil
}

func (app *App) service() (api.Service, error) {
	svc, err := api.New(app.Config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	return svc, nil
}
