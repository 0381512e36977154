package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/couplecards/internal/api"
	"github.com/mcoot/couplecards/internal/config"
	"github.com/mcoot/couplecards/internal/factory"
	"github.com/mcoot/couplecards/internal/pairing"
	redisstorage "github.com/mcoot/couplecards/internal/storage/redis"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to load .env", slog.String("error", err.Error()))
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return 1
	}
	level, _ := cfg.SlogLevel()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	factoryCfg := factory.Config{
		Logger:              logger,
		StorageType:         cfg.StorageType,
		DBPath:              cfg.DBPath,
		DeckPath:            cfg.DeckPath,
		DeviceType:          cfg.Device(),
		FirstTouchAnimation: cfg.FirstTouchAnimation,
	}

	if cfg.StorageType == config.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}
	// Pairing is only available with Redis
	if cfg.RedisURL != "" {
		pairingCfg := pairing.DefaultConfig()
		pairingCfg.URL = cfg.RedisURL
		factoryCfg.PairingConfig = &pairingCfg
	}

	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	apiRouter := api.NewRouter(app.RouterConfig(logger))

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(mux, serverConfig, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.Int("port", cfg.Port),
		slog.String("storage", cfg.StorageType),
		slog.Bool("pairing", cfg.RedisURL != ""))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return 1
		}
	}

	logger.Info("server stopped")
	return 0
}
