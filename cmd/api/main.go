package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/folio-works/portfolio-api/config"
	"github.com/folio-works/portfolio-api/internal/bootstrap"
	"github.com/folio-works/portfolio-api/internal/logging"
	"github.com/folio-works/portfolio-api/internal/metrics"
	"github.com/folio-works/portfolio-api/internal/projects/repository"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.App.LogLevel, cfg.App.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logging.Sync(logger) }()

	bootstrap.SetGinMode(cfg.App.IsProduction())
	m := metrics.New()

	primary, closePrimary, err := bootstrap.OpenPrimaryStore(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Database.Driver, err)
	}
	defer closePrimary()

	mediaStore, localMedia, err := bootstrap.NewMediaStore(cfg.Media, m)
	if err != nil {
		return fmt.Errorf("init media store: %w", err)
	}
	if localMedia != nil {
		logger.Warn("MEDIA_ENDPOINT not set, uploads are kept in memory")
	}

	stores := repository.NewResolver(primary, repository.NewFallbackStore(), logger.Named("stores"), m)

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.App.Name,
		Version:        cfg.App.Version,
		Production:     cfg.App.IsProduction(),
		CORSOrigins:    cfg.Server.CORSOrigins,
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
		Logger:         logger,
		Metrics:        m,
		Stores:         stores,
		Media:          mediaStore,
		LocalMedia:     localMedia,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("store_driver", cfg.Database.Driver),
			zap.Bool("remote_media", localMedia == nil),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received, draining connections")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
