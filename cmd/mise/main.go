package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/colebaker/mise/internal/api"
	"github.com/colebaker/mise/internal/config"
	"github.com/colebaker/mise/internal/env"
	"github.com/colebaker/mise/internal/http"
	"github.com/colebaker/mise/internal/log"
	"github.com/colebaker/mise/internal/setup"

	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	const setupTime = 30 * time.Second
	setupCtx, cancel := context.WithTimeout(ctx, setupTime)
	defer cancel()

	logger := log.New(nil)

	// .env is optional, for local development.
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env file")
	}

	httpConfig := http.DefaultConfig()
	httpConfig.Logger = logger
	httpClient := http.New(httpConfig)

	conf, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := setup.Database(setupCtx, conf)
	if err != nil {
		logger.Error("failed to setup database", slog.Any("error", err))
		os.Exit(1)
	}

	fs, err := setup.FileStore(setupCtx, conf)
	if err != nil {
		logger.Error("failed to setup file store", slog.Any("error", err))
		os.Exit(1)
	}

	v, err := setup.Vault(conf)
	if err != nil {
		logger.Error("failed to setup vault", slog.Any("error", err))
		os.Exit(1)
	}

	environment := &env.Env{
		Logger:    logger,
		Database:  db,
		HTTP:      httpClient,
		SMTP:      setup.SMTP(conf),
		FileStore: fs,
		Vault:     v,
		Config:    conf,
	}

	if err := api.Start(environment); err != nil {
		environment.Logger.Error("API Failed", slog.Any("error", err))
		os.Exit(1)
	}
}
