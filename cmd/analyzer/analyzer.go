// Package main implements the plog analyzer service.
// The analyzer preprocesses load-test telemetry on demand, periodically
// collects pod resource usage, and serves analysis snapshots via HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/team-Plog/plog-sub001/cmd/analyzer/metrics"
	"github.com/team-Plog/plog-sub001/pkg/analysis"
	"github.com/team-Plog/plog-sub001/pkg/collectors"
	"github.com/team-Plog/plog-sub001/pkg/metadata"
	"github.com/team-Plog/plog-sub001/pkg/storage"
	"github.com/team-Plog/plog-sub001/pkg/telemetry"
)

// Watcher orchestrates the resource analysis loop:
// collect → resolve → analyze → store.
type Watcher struct {
	target    string
	collector collectors.Collector
	resolver  metadata.Resolver
	engine    *analysis.Engine
	store     storage.Store
	window    time.Duration
	trim      bool
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewWatcher creates a new Watcher. The resolver may be nil, in which case
// service types are left empty.
func NewWatcher(
	target string,
	collector collectors.Collector,
	resolver metadata.Resolver,
	engine *analysis.Engine,
	store storage.Store,
	window time.Duration,
	trim bool,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		target:    target,
		collector: collector,
		resolver:  resolver,
		engine:    engine,
		store:     store,
		window:    window,
		trim:      trim,
		metrics:   m,
		logger:    logger,
	}
}

// Run executes the analysis loop at regular intervals.
// Blocks until context is canceled.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) error {
	w.logger.Info("starting resource analysis loop", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := w.Tick(ctx); err != nil {
		w.logger.Error("analysis tick failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("resource analysis loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := w.Tick(ctx); err != nil {
				w.logger.Error("analysis tick failed", "error", err)
			}
		}
	}
}

// Tick performs one collect-analyze-store cycle.
// Exported for testing purposes.
func (w *Watcher) Tick(ctx context.Context) error {
	start := time.Now()
	w.logger.Debug("starting analysis tick")

	series, collectDuration, err := w.collect(ctx)
	if err != nil {
		w.metrics.RecordError("collector", "collect_failed")
		return fmt.Errorf("collect: %w", err)
	}

	w.resolveServiceTypes(ctx, series)

	analyzeStart := time.Now()
	result := w.engine.AnalyzeResources(series, w.trim)
	analyzeDuration := time.Since(analyzeStart)

	w.metrics.RecordAnalysis(string(storage.KindResource), "ok", analyzeDuration.Seconds())
	w.metrics.RecordDiscarded(string(storage.KindResource), result.Received-result.Retained)

	if err := w.storeSnapshot(result); err != nil {
		w.metrics.RecordError("store", "put_failed")
		return fmt.Errorf("store: %w", err)
	}
	w.metrics.SetSnapshotAge(0)

	totalDuration := time.Since(start)
	w.logger.Info("analysis tick complete",
		"target", w.target,
		"pods", len(result.Cleaned),
		"received", result.Received,
		"retained", result.Retained,
		"collect_ms", collectDuration.Milliseconds(),
		"analyze_ms", analyzeDuration.Milliseconds(),
		"total_ms", totalDuration.Milliseconds(),
	)

	return nil
}

// collect retrieves resource usage from the collector.
func (w *Watcher) collect(ctx context.Context) ([]telemetry.ResourceSeries, time.Duration, error) {
	start := time.Now()

	series, err := w.collector.Collect(ctx, w.window)
	if err != nil {
		return nil, 0, err
	}

	duration := time.Since(start)
	w.metrics.RecordCollect(duration.Seconds())
	w.logger.Debug("collected resource usage",
		"collector", w.collector.Name(),
		"pods", len(series),
		"duration_ms", duration.Milliseconds(),
	)

	return series, duration, nil
}

// resolveServiceTypes fills in the service type of each pod via the
// metadata resolver. Lookup failures leave the service type empty and the
// tick continues.
func (w *Watcher) resolveServiceTypes(ctx context.Context, series []telemetry.ResourceSeries) {
	if w.resolver == nil {
		return
	}

	for i := range series {
		if series[i].ServiceType != "" {
			continue
		}
		info, err := w.resolver.Lookup(ctx, series[i].PodName)
		if err != nil {
			w.metrics.RecordError("metadata", "lookup_failed")
			w.logger.Warn("pod metadata lookup failed", "pod", series[i].PodName, "error", err)
			continue
		}
		series[i].ServiceType = info.ServiceType
	}
}

// storeSnapshot persists the analysis snapshot.
func (w *Watcher) storeSnapshot(result telemetry.ResourceResult) error {
	snapshot := storage.Snapshot{
		ID:          uuid.NewString(),
		Target:      w.target,
		Kind:        storage.KindResource,
		GeneratedAt: time.Now(),
		Summary:     result.Summary,
		Received:    result.Received,
		Retained:    result.Retained,
	}

	if err := w.store.Put(snapshot); err != nil {
		return err
	}

	w.logger.Debug("stored snapshot", "target", w.target, "id", snapshot.ID)
	return nil
}
