package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bizhub/internal/amqp"
	"bizhub/internal/config"
	"bizhub/internal/log"
	"bizhub/internal/storage"
	"bizhub/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentWorker})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the snapshot worker")
		os.Exit(1)
	}

	repo, err := storage.NewSnapshotRepository(cfg.SnapshotDBPath)
	if err != nil {
		logger.Error("snapshot repository initialization failed",
			log.FieldError, err, "path", cfg.SnapshotDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("amqp initialization failed", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.NewSnapshotWorker(repo, logger)
	logger.Info("snapshot worker started", "queue", cfg.AMQPQueue)

	if err := w.Run(ctx, client); err != nil && err != context.Canceled {
		logger.Error("snapshot worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("snapshot worker stopped gracefully")
}
