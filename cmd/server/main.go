package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/coursesearch/internal/api"
	"github.com/dgallion1/coursesearch/internal/catalog"
	"github.com/dgallion1/coursesearch/internal/config"
	"github.com/dgallion1/coursesearch/internal/pages"
	"github.com/dgallion1/coursesearch/internal/search"
	"github.com/dgallion1/coursesearch/internal/site"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Error("load catalog", "error", err)
		os.Exit(1)
	}
	builder, err := site.NewBuilder(cfg.SiteTitle, cat)
	if err != nil {
		log.Error("prepare catalog page", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Page registry with idle eviction.
	store := pages.NewStore(cfg.PageTTL, cfg.MaxPages, log)
	store.Start(ctx, cfg.CleanupInterval)

	stats := search.NewStats(cfg.StatsWindow)

	// Initialize HTTP server.
	srv := api.NewServer(cat, builder, store, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		store.Stop()
	}()

	log.Info("starting coursesearch", "port", cfg.Port, "courses", len(cat.Courses))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
