package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/notumhq/notum/internal/app"
	"github.com/notumhq/notum/internal/config"
	"github.com/notumhq/notum/internal/platform/logger"
)

// setup loads configuration, initializes logging and wires the application.
// Every subcommand goes through here.
func setup(ctx context.Context) (*app.Application, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logr, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	application, err := app.New(ctx, cfg, logr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	return application, logr, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			application, logr, err := setup(ctx)
			if err != nil {
				return err
			}
			defer application.Close()

			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", application.Config.Server.Port),
				Handler: application.Router(),
			}

			shutdownCh := make(chan os.Signal, 1)
			signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logr.Info("starting server", slog.Int("port", application.Config.Server.Port))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-shutdownCh:
				logr.Info("shutting down server")
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}
