package cli

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/binding"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/state"
	"github.com/Makepad-fr/tada/internal/tui"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal UI",
		Long: `Browse and edit the task list in the terminal.

Keys: a add, e edit/save, i type into an editable title, d delete,
space toggle done, q quit.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service()
			if err != nil {
				return err
			}

			// the terminal belongs to the program; logs go to a file or nowhere
			logger := slog.New(slog.DiscardHandler)
			if app.Config.LogFile != "" {
				f, err := tea.LogToFile(app.Config.LogFile, "tada")
				if err != nil {
					return err
				}
				defer f.Close()
				logger = config.NewLogger(app.Config.LogLevel, f)
			}

			s := tui.NewSurface()
			b := binding.New(svc, state.New(), s, logger)
			return tui.Run(cmd.Context(), s, b.Bootstrap)
		},
	}
}
