// Package main runs the marketplace server: the token/trade ledger behind
// an HTTP API, with optional bond gateway forwarding, a ClickHouse trade
// tape and a Prometheus metrics endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"assetra/internal/api"
	"assetra/internal/chain"
	"assetra/internal/config"
	"assetra/internal/ledger"
	"assetra/internal/marketplace"
	"assetra/internal/observability"
	"assetra/internal/storage"
	chstore "assetra/internal/storage/clickhouse"
	"assetra/internal/storage/file"
	"assetra/internal/storage/memory"
	"assetra/internal/storage/migrations"
	pgstore "assetra/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", os.Getenv("ASSETRA_CONFIG"), "Path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blobs, archive, cleanup, err := createStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to create stores", zap.Error(err))
	}
	defer cleanup()

	store, err := ledger.Open(ctx, blobs)
	if err != nil {
		logger.Fatal("failed to open ledger", zap.Error(err))
	}
	logger.Info("ledger opened",
		zap.String("backend", cfg.Storage.Backend),
		zap.Int("tokens", len(store.GetTokens())))

	var gateway marketplace.Gateway
	if cfg.Chain.Enabled {
		gateway = chain.NewClient(cfg.Chain.RPCEndpoint)
		logger.Info("bond gateway enabled", zap.String("endpoint", cfg.Chain.RPCEndpoint))

		if cfg.Chain.WSEndpoint != "" {
			go watchBondEvents(ctx, cfg.Chain.WSEndpoint, logger)
		}
	}

	svc := marketplace.NewService(store, gateway, archive, logger)

	// Metrics endpoint on its own listener.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		logger.Info("metrics server listening", zap.String("addr", cfg.Server.MetricsAddr))
		if err := http.ListenAndServe(cfg.Server.MetricsAddr, mux); err != nil {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewRouter(svc, logger),
	}

	// Handle shutdown signals; a second signal forces immediate exit.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}

		select {
		case sig := <-sigCh:
			logger.Warn("received second signal, forcing exit", zap.String("signal", sig.String()))
			os.Exit(1)
		case <-shutdownCtx.Done():
		}
	}()

	logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

// newLogger builds the zap logger from config.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	if cfg.Debug {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// createStores builds the blob store and optional trade archive per config,
// running migrations for the database backends.
func createStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.BlobStore, storage.TradeArchive, func(), error) {
	var (
		blobs   storage.BlobStore
		cleanup = func() {}
	)

	switch cfg.Storage.Backend {
	case "memory":
		blobs = memory.NewBlobStore()
	case "file":
		fb, err := file.NewBlobStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open file store: %w", err)
		}
		blobs = fb
	case "postgres":
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("run postgres migrations: %w", err)
		}
		blobs = pgstore.NewBlobStore(pool)
		cleanup = pool.Close
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	// Trade tape is optional and independent of the blob backend.
	var archive storage.TradeArchive
	if cfg.Storage.ClickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			conn.Close()
			cleanup()
			return nil, nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		archive = chstore.NewTradeTapeStore(conn)
		logger.Info("trade tape enabled")

		prev := cleanup
		cleanup = func() {
			conn.Close()
			prev()
		}
	}

	return blobs, archive, cleanup, nil
}

// watchBondEvents logs contract events from the gateway's WebSocket feed.
func watchBondEvents(ctx context.Context, endpoint string, logger *zap.Logger) {
	watcher, err := chain.NewEventWatcher(ctx, endpoint, nil)
	if err != nil {
		logger.Warn("bond event watcher unavailable", zap.Error(err))
		return
	}
	defer watcher.Close()

	logger.Info("watching bond events", zap.String("endpoint", endpoint))
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events():
			if !ok {
				return
			}
			logger.Info("bond event",
				zap.String("event", ev.Event),
				zap.String("isin", ev.ISIN),
				zap.String("investor", ev.Investor),
				zap.Float64("amount", ev.Amount),
				zap.String("tx", ev.TxHash))
		}
	}
}
