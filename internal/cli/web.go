package cli

import (
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/web"
)

func newWebCmd(app *App) *cobra.Command {
	var addr, datastarFile string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the task list page",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			listen := app.Config.WebAddr
			if cmd.Flags().Changed("addr") {
				listen = addr
			}
			svc, err := app.service()
			if err != nil {
				return err
			}
			bundle := app.Config.DatastarFile
			if cmd.Flags().Changed("datastar") {
				bundle = datastarFile
			}
			srv, err := web.New(svc, app.Logger, web.WithDatastarFile(bundle))
			if err != nil {
				return err
			}
			return listenAndServe(cmd.Context(), app.Logger, listen, srv.Handler(),
				"tasks from "+app.Config.BaseURL, srv.Run)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (env TADA_WEB_ADDR)")
	cmd.Flags().StringVar(&datastarFile, "datastar", "", "Serve this local datastar bundle instead of the CDN copy (env TADA_DATASTAR_FILE)")
	return cmd
}
