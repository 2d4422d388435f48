// Package main is the entry point for the invoicedesk API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoicedesk/internal/config"
	"invoicedesk/internal/core/kv"
	"invoicedesk/internal/domain/auth"
	"invoicedesk/internal/domain/directory"
	"invoicedesk/internal/domain/documents"
	"invoicedesk/internal/domain/navigation"
	v1 "invoicedesk/internal/infrastructure/http/v1"
	"invoicedesk/internal/infrastructure/metrics"
	"invoicedesk/internal/infrastructure/storage"
	"invoicedesk/internal/infrastructure/storage/postgres/directory_repo"
	"invoicedesk/pkg/logger"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()

	log.Infow("starting invoicedesk server", "storage_backend", cfg.Storage.Backend)

	// --- Storage ---
	res, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer res.Close()

	m := metrics.New()

	if w, ok := res.Area.(kv.Watcher); ok {
		if err := watchStorage(ctx, w, m); err != nil {
			log.Warnw("storage watch disabled", "error", err)
		}
	}

	// --- Services ---
	docService := documents.NewService(documents.ServiceConfig{
		Area:           res.Area,
		StrictDecoding: cfg.Storage.StrictDecoding,
		Recorder:       m,
	})

	passwordHash, err := cfg.Admin.Hash()
	if err != nil {
		log.Fatalw("invalid admin password configuration", "error", err)
	}
	if len(passwordHash) == 0 {
		log.Warn("no admin password configured, login is disabled")
	}
	authService := auth.NewService(auth.NewFlagStore(res.Area), auth.ServiceConfig{
		Username:     cfg.Admin.Username,
		PasswordHash: passwordHash,
	})

	navigator := navigation.NewNavigator(navigation.DefaultTable(), authService, m)

	var clientRepo directory.Repository = directory.UnconfiguredRepository{}
	if res.TxManager != nil {
		clientRepo = directory_repo.NewClientRepo(res.TxManager)
	} else {
		log.Warn("DATABASE_URL not set, /api/clients will answer 500")
	}
	dirService := directory.NewService(clientRepo)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:           log,
		Documents:        docService,
		Auth:             authService,
		Navigator:        navigator,
		Directory:        dirService,
		Metrics:          m,
		HealthChecks:     res.Checks,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Development:      cfg.Development(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	cancel()

	log.Info("server stopped")
}

// watchStorage counts and logs every change to the storage area, including
// those made by invoicedeskctl working on the same directory.
func watchStorage(ctx context.Context, w kv.Watcher, m *metrics.Metrics) error {
	events, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	go func() {
		for ev := range events {
			m.StorageChanged(ev.Key, ev.Deleted)
			logger.Debug(ctx, "storage key changed", "key", ev.Key, "deleted", ev.Deleted)
		}
	}()
	return nil
}
