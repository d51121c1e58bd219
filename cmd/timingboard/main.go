// Package main provides the entry point for the timing board server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/davisrp/timingboard/internal/api"
	"github.com/davisrp/timingboard/internal/auth"
	"github.com/davisrp/timingboard/internal/blob"
	"github.com/davisrp/timingboard/internal/config"
	"github.com/davisrp/timingboard/internal/directory"
	"github.com/davisrp/timingboard/internal/logging"
	"github.com/davisrp/timingboard/internal/metrics"
	"github.com/davisrp/timingboard/internal/notify"
	"github.com/davisrp/timingboard/internal/storage"
)

const version = "1.0.0"

const shutdownTimeout = 10 * time.Second

// components holds every wired piece of the application.
type components struct {
	logger   *slog.Logger
	logLevel *slog.LevelVar
	store    *storage.SQLiteStorage
	broker   *notify.Broker
	dir      *directory.Directory
	blobs    *blob.LocalStore
	auth     *auth.Service
	tokens   *auth.TokenIssuer
	router   chi.Router
}

// initializeComponents wires storage, notifications, auth, and the HTTP
// surface from configuration. The caller owns store.Close.
func initializeComponents(cfg *config.Config) (*components, error) {
	logger, logLevel := logging.NewLogger(os.Stdout, cfg.LogLevel)

	broker := notify.NewBroker()

	store, err := storage.New(cfg.DatabasePath, broker)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	blobs, err := blob.NewLocalStore(cfg.MediaDir, cfg.MediaPublicURL)
	if err != nil {
		store.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}

	tokens := auth.NewTokenIssuer([]byte(cfg.SessionSecret))
	authSvc := auth.NewService(store, tokens, cfg.SessionTTL)
	if cfg.BootstrapAdmin != "" {
		authSvc.SetBootstrapAdmin(cfg.BootstrapAdmin)
	}
	dir := directory.New(store, logger)

	handler := api.NewHandler(store, dir, authSvc, tokens, blobs, broker, logLevel, logger)

	return &components{
		logger:   logger,
		logLevel: logLevel,
		store:    store,
		broker:   broker,
		dir:      dir,
		blobs:    blobs,
		auth:     authSvc,
		tokens:   tokens,
		router:   handler.NewRouter(),
	}, nil
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	c, err := initializeComponents(cfg)
	if err != nil {
		return err
	}
	defer c.store.Close() //nolint:errcheck

	if err := metrics.Init(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The directory follows store changes for as long as the process runs
	go c.dir.Run(ctx, c.broker.Subscribe(ctx))

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           c.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsServer := &http.Server{
		Addr:              cfg.MetricsListenAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		c.logger.Info("server starting", "version", version, "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server failed: %w", err)
		}
	}()
	go func() {
		c.logger.Info("metrics listener starting", "addr", cfg.MetricsListenAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics listener failed: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		c.logger.Error("server shutdown failed", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		c.logger.Error("metrics shutdown failed", "error", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}
