// Package main implements the entry point for the notum server, the local
// persistence and scheduling core behind the browser-integration layer.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notumhq/notum/internal/app"
	"github.com/notumhq/notum/internal/config"
	"github.com/notumhq/notum/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// run loads configuration, wires the application and serves HTTP until a
// shutdown signal arrives.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logr, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	ctx := context.Background()
	application, err := app.New(ctx, cfg, logr)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	return serveHTTP(ctx, application, logr)
}

// serveHTTP starts the HTTP server with graceful shutdown support.
func serveHTTP(ctx context.Context, application *app.Application, logr *slog.Logger) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", application.Config.Server.Port),
		Handler: application.Router(),
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logr.Info("starting server", slog.Int("port", application.Config.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", slog.String("error", err.Error()))
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		logr.Info("shutting down server")
	case <-serverCtx.Done():
		logr.Info("server context canceled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", slog.String("error", err.Error()))
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logr.Info("server shutdown completed")
	return nil
}
