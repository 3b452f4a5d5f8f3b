package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"advisor_server/config"
	"advisor_server/internal/bootstrap"
	"advisor_server/pkg/logger"

	"github.com/joho/godotenv"
)

const (
	shutdownTimeout = 30 * time.Second // Maximum time to wait for graceful shutdown
)

func main() {
	// Load .env file if exists (for local development)
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	app, cleanup, err := bootstrap.NewAPI(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize API: %v", err)
	}
	defer cleanup()

	if envErr != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API server (timeout: %v)...", shutdownTimeout)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			logger.Error("Error shutting down: %v", err)
			return
		}
		logger.Info("API server shut down gracefully")
	}()

	addr := ":" + cfg.Port
	logger.Info("Starting advisor API on %s (env=%s)", addr, cfg.Environment)
	if err := app.Listen(addr); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
