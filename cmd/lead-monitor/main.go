package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nookly/lead-monitor/internal/app"
	"github.com/nookly/lead-monitor/internal/platform/config"
	"github.com/nookly/lead-monitor/internal/storage"
)

func main() {
	mode := flag.String("mode", "monitor", "Service mode (monitor, digest)")
	once := flag.Bool("once", false, "Run once and exit")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open record store")
	}

	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("closing record store")
		}
	}()

	application, err := app.New(cfg, store, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to wire application")
	}

	// Start health server in background
	go func() {
		if err := application.StartHealthServer(ctx); err != nil {
			logger.Error().Err(err).Msg("health check server error")
		}
	}()

	if err := runMode(ctx, application, *mode, *once); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func newStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (storage.Store, error) {
	if cfg.StoreBackend == "postgres" {
		return storage.NewPostgresStore(ctx, cfg.PostgresDSN, logger)
	}

	return storage.NewFileStore(cfg.StoreDir)
}

func runMode(ctx context.Context, application *app.App, mode string, once bool) error {
	switch mode {
	case "monitor":
		return application.RunMonitor(ctx, once)
	case "digest":
		return application.RunDigest(ctx, once)
	default:
		log.Fatalf("Usage: %s --mode=[monitor|digest]", os.Args[0])

		return nil
	}
}
