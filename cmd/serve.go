package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tareas/internal/app"
	"github.com/thenoetrevino/tareas/internal/cli"
	"github.com/thenoetrevino/tareas/internal/httpapi"
	"github.com/thenoetrevino/tareas/internal/logging"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the REST API server.

Routes:
  GET    /tasks?title=&status=  List tasks, oldest first
  GET    /tasks/{id}            Get a task
  POST   /tasks                 Create a task
  PUT    /tasks/{id}            Update a task
  DELETE /tasks/{id}            Delete a task
  GET    /health                Database connectivity probe
  GET    /api/test-connection   Same as /health
  GET    /metrics               Request counters
`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := cli.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	logCloser, err := logging.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	application, err := app.Open(cmd.Context(), cfg, app.WithInstanceLock(), app.WithLogger(logging.Logger))
	if err != nil {
		return err
	}

	handler := httpapi.NewRouter(application.TaskService,
		httpapi.WithLogger(logging.Logger),
		httpapi.WithCORSOrigins(cfg.Server.CORSOrigins),
	)
	server := httpapi.NewServer(cfg.Server.Addr, handler)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("tareas server starting",
			"addr", cfg.Server.Addr,
			"driver", cfg.Database.Driver,
			"cors_origins", cfg.Server.CORSOrigins)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Drain HTTP first, then release the database and lock
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"tareas": func(ctx context.Context) error {
				slog.Info("graceful shutdown initiated")
				shutdownErr := server.Shutdown(ctx)
				return errors.Join(shutdownErr, application.Close())
			},
		},
	)

	select {
	case err := <-serveErr:
		_ = application.Close()
		return fmt.Errorf("server failed: %w", err)
	case code := <-wait:
		slog.Info("tareas server stopped", "exit_code", code)
		if code != 0 {
			return fmt.Errorf("shutdown finished with exit code %d", code)
		}
		return nil
	}
}
