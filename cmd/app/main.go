package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"clima.app/internal/app"
	"clima.app/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found or error loading it")
	}

	logger.NewWithLevel(logger.ParseLevel(os.Getenv("LOG_LEVEL"))).
		WithFields(map[string]interface{}{"service": "clima", "pid": os.Getpid()}).
		SetDefault()

	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	cfg := application.Config()
	slog.Info("Configuration loaded successfully",
		"port", cfg.Server.Port,
		"defaultCity", cfg.Widget.DefaultCity,
		"refreshMinutes", cfg.Widget.RefreshIntervalMinutes)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := setupGracefulShutdown(cancel, application)

	slog.Info("Starting Clima widget server...")
	if err := application.Start(ctx); err != nil {
		slog.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	<-done
}

// setupGracefulShutdown stops the application on SIGINT or SIGTERM.
// The returned channel is closed once shutdown has finished.
func setupGracefulShutdown(cancel context.CancelFunc, application *app.Application) <-chan struct{} {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-signals
		slog.Info("Received shutdown signal...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := application.Shutdown(shutdownCtx); err != nil {
			slog.Error("Error during graceful shutdown", "error", err)
		}
	}()
	return done
}
