package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/server"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/sqlitestore"
	"github.com/Makepad-fr/tada/internal/ui"
)

const shutdownGrace = 5 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var addr, backend, data string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development task resource server",
		Long: `Serve a json-server compatible /todos collection backed by a JSON file
or a SQLite database. The web and terminal surfaces talk to it through TADA_URL.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.ServerAddr = addr
			}
			if flags.Changed("backend") {
				if !flags.Changed("data") && cfg.DataPath == cfg.DefaultDataPath() {
					cfg.DataPath = ""
				}
				cfg.Backend = backend
			}
			if flags.Changed("data") {
				cfg.DataPath = data
			}
			if err := cfg.Validate(); err != nil {
				return usageError{msg: err.Error()}
			}

			repo, err := openRepository(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			srv := server.New(repo, app.Logger)
			return listenAndServe(cmd.Context(), app.Logger, cfg.ServerAddr, srv.Handler(),
				fmt.Sprintf("serving %s (%s)", server.CollectionPath, cfg.DataPath))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (env TADA_SERVER_ADDR)")
	cmd.Flags().StringVar(&backend, "backend", "", "Storage backend: json|sqlite (env TADA_BACKEND)")
	cmd.Flags().StringVar(&data, "data", "", "Data file (env TADA_DATA)")
	return cmd
}

func openRepository(ctx context.Context, cfg config.Config) (store.Repository, error) {
	if cfg.Backend == config.BackendSQLite {
		s, err := sqlitestore.Open(ctx, cfg.DataPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := jsonstore.Open(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// listenAndServe runs h on addr until ctx is done or the process is
// interrupted, then shuts the server down. Extra workers share the
// server's lifetime.
func listenAndServe(ctx context.Context, logger *slog.Logger, addr string, h http.Handler, banner string, workers ...func(context.Context)) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		// long-lived streams end with the server
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ui.OK(fmt.Sprintf("%s on http://%s", banner, ln.Addr()))
		logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	for _, w := range workers {
		g.Go(func() error {
			w(gctx)
			return nil
		})
	}
	return g.Wait()
}
