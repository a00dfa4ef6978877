package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"bizhub/internal/amqp"
	"bizhub/internal/auth"
	"bizhub/internal/config"
	"bizhub/internal/export"
	apphttp "bizhub/internal/http"
	"bizhub/internal/log"
	"bizhub/internal/middleware/authn"
	"bizhub/internal/services"
	"bizhub/internal/store"
	fsstore "bizhub/internal/store/firestore"
	memstore "bizhub/internal/store/memory"
)

// devVerifier treats the bearer token itself as the user id. Memory-backend
// local development only; the firestore backend always verifies real
// tokens.
type devVerifier struct{}

func (devVerifier) VerifyToken(_ context.Context, idToken string) (string, error) {
	if idToken == "" {
		return "", errors.New("empty token")
	}
	return idToken, nil
}

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		backend  store.DocumentStore
		verifier authn.TokenVerifier
		authApp  *auth.App
	)
	switch cfg.DataBackend {
	case "firestore":
		authApp = auth.NewApp(logger)
		client, err := authApp.Firestore(ctx)
		if err != nil {
			logger.Error("firestore initialization failed", log.FieldError, err)
			os.Exit(1)
		}
		backend = fsstore.New(client, logger)
		verifier = authApp
		logger.Info("initialized firestore backend")
	default:
		backend = memstore.New()
		verifier = devVerifier{}
		logger.Info("initialized memory backend")
	}

	hub := services.NewHub(backend, logger)
	userSignal := auth.NewSignal()

	var publisher services.SnapshotPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("amqp initialization failed", log.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
	} else {
		logger.Warn("snapshot mirroring disabled, no AMQP URL configured")
	}

	var spreadsheet apphttp.SpreadsheetPusher
	if os.Getenv("EXPORT_SPREADSHEET_ID") != "" {
		exp, err := export.NewSpreadsheetExporter(ctx, logger)
		if err != nil {
			logger.Error("spreadsheet exporter initialization failed", log.FieldError, err)
			os.Exit(1)
		}
		spreadsheet = exp
	} else {
		logger.Info("spreadsheet export disabled, no EXPORT_SPREADSHEET_ID configured")
	}

	snapshots := services.NewSnapshotService(hub, publisher, cfg.SnapshotDelay, logger)
	defer snapshots.Close()

	srv := apphttp.NewServer(apphttp.Options{
		Addr:        ":" + cfg.Port,
		Hub:         hub,
		Signal:      userSignal,
		Verifier:    verifier,
		Spreadsheet: spreadsheet,
		CacheSize:   cfg.SummaryCacheSize,
		CacheTTL:    cfg.SummaryCacheTTL,
		Logger:      logger,
	})

	// Backend-side snapshot deliveries evict cached summaries, so edits
	// echoing in from other sessions are visible on the next read.
	snapshots.NotifyChange(srv.InvalidateSummary)
	unwatch := userSignal.Watch(func(uid string) {
		snapshots.SetUser(ctx, uid)
	})
	defer unwatch()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server",
			"port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Pending snapshot mirrors go out before the process dies.
		snapshots.Flush()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", log.FieldError, err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", log.FieldError, err)
		os.Exit(1)
	}

	if authApp != nil {
		if err := authApp.Close(); err != nil {
			logger.Warn("auth close error", log.FieldError, err)
		}
	}
	logger.Info("server stopped gracefully")
}
