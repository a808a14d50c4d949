package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/team-Plog/plog-sub001/cmd/analyzer/config"
	"github.com/team-Plog/plog-sub001/cmd/analyzer/logger"
	"github.com/team-Plog/plog-sub001/cmd/analyzer/metrics"
	"github.com/team-Plog/plog-sub001/cmd/analyzer/router"
	"github.com/team-Plog/plog-sub001/cmd/analyzer/store"
	"github.com/team-Plog/plog-sub001/pkg/analysis"
	"github.com/team-Plog/plog-sub001/pkg/collectors"
	"github.com/team-Plog/plog-sub001/pkg/httpx"
	"github.com/team-Plog/plog-sub001/pkg/metadata"
)

func main() {
	cfg := config.ParseFlags()

	logger := logger.New(cfg)
	slog.SetDefault(logger)

	logger.Info("starting plog analyzer",
		"version", "v0.1.0",
		"target", cfg.Target,
	)

	m := metrics.New(cfg.Target)
	engine := analysis.NewEngine(logger)
	snapshots := store.New(cfg, logger)
	defer func() {
		if closer, ok := snapshots.(interface{ Close() error }); ok {
			closer.Close()
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The resource watcher only runs when a Prometheus URL is configured.
	if cfg.PromURL != "" {
		collector, err := collectors.NewPrometheusCollector(cfg.PromURL, cfg.PromCPUQuery, cfg.PromMemQuery, cfg.Step)
		if err != nil {
			logger.Error("failed to create collector", "error", err)
			os.Exit(1)
		}

		var resolver metadata.Resolver
		if cfg.MetadataURL != "" {
			resolver = metadata.NewCache(metadata.NewClient(cfg.MetadataURL), cfg.MetadataTTL)
		}

		w := NewWatcher(cfg.Target, collector, resolver, engine, snapshots, cfg.Window, cfg.Trim, m, logger)
		go func() {
			if err := w.Run(ctx, cfg.Interval); err != nil && err != context.Canceled {
				logger.Error("analysis loop failed", "error", err)
			}
		}()
	} else {
		logger.Info("no prometheus URL configured, resource watcher disabled")
	}

	staleAfter := 2 * cfg.Interval // Snapshot is stale if older than 2x the interval
	mux := router.SetupRoutes(engine, snapshots, cfg.Trim, staleAfter, m, logger)
	httpServer := httpx.NewServer(cfg.Listen, mux, logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	}

	logger.Info("shutting down")
	cancel()

	if err := httpServer.Stop(10 * time.Second); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
