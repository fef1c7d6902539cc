package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/cstortz/monorepo-trading-bot/internal/config"
	"github.com/cstortz/monorepo-trading-bot/internal/dbclient"
	"github.com/cstortz/monorepo-trading-bot/internal/gateway"
	"github.com/cstortz/monorepo-trading-bot/internal/kraken"
	"github.com/cstortz/monorepo-trading-bot/internal/pairs"
	"github.com/cstortz/monorepo-trading-bot/internal/server"
	"github.com/cstortz/monorepo-trading-bot/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/marketdata.local.yaml", "path to config file")
	flag.Parse()

	// .env is optional; config values fall back to defaults without it
	godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting market-data service",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration; without a config file the service runs on the
	// built-in defaults and environment overrides
	var cfg *config.ServiceConfig
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Warn("config file not found, using defaults", "path", *configPath)
		cfg = config.Default()
	} else {
		loaded, err := config.LoadAndValidate(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger.Info("configuration loaded",
		"environment", cfg.Service.Environment,
		"port", cfg.Service.Port,
		"kraken_url", cfg.Kraken.RestURL,
		"database_url", cfg.Database.BaseURL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Kraken client; credentials are only needed for private endpoints
	krakenOpts := []kraken.ClientOption{
		kraken.WithLogger(logger),
		kraken.WithTimeout(cfg.Kraken.Timeout),
		kraken.WithRetries(cfg.Kraken.MaxRetries, time.Second),
	}
	if cfg.Kraken.APIKey != "" {
		signer, err := kraken.NewSigner(cfg.Kraken.APIKey, cfg.Kraken.APISecret)
		if err != nil {
			logger.Error("invalid kraken credentials", "error", err)
			os.Exit(1)
		}
		krakenOpts = append(krakenOpts, kraken.WithSigner(signer))
		logger.Info("kraken private endpoints enabled")
	}
	krakenClient := kraken.NewClient(cfg.Kraken.RestURL, krakenOpts...)

	// Database web service client
	store := dbclient.NewTradingStore(dbclient.NewClient(
		cfg.Database.BaseURL,
		dbclient.WithLogger(logger),
		dbclient.WithTimeout(cfg.Database.Timeout),
	))

	// Pair cache, optionally backed by Redis
	cacheOpts := []pairs.CacheOption{
		pairs.WithLogger(logger),
		pairs.WithTTL(cfg.Cache.PairsTTL),
	}
	if cfg.Cache.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, pair cache is memory-only", "error", err)
		} else {
			cacheOpts = append(cacheOpts, pairs.WithStore(
				pairs.NewRedisStore(rdb, cfg.Cache.Redis.Key, cfg.Cache.PairsTTL),
			))
			logger.Info("redis snapshot store enabled",
				"addr", cfg.Cache.Redis.Addr,
				"key", cfg.Cache.Redis.Key,
			)
		}
		pingCancel()
	}
	cache := pairs.NewCache(gateway.PairSource(krakenClient), cacheOpts...)
	if err := cache.Warm(ctx); err != nil {
		logger.Warn("failed to warm pair cache", "error", err)
	}

	svc := gateway.NewService(krakenClient, store, cache, logger)

	// Report database reachability at startup; a down database degrades
	// rather than blocks
	health := svc.Health(ctx)
	logger.Info("startup health check",
		"status", health.Status,
		"database_status", health.DatabaseStatus,
	)

	srv := server.New(svc, cfg.Service.Port, server.Info{
		Environment: cfg.Service.Environment,
		Debug:       cfg.Service.Debug,
	}, logger)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("market-data service stopped")
}
