// Package router configures HTTP routes for the analyzer's HTTP API.
//
// The analyzer exposes an HTTP server on port 8081 (configurable) that
// accepts raw load-test telemetry for preprocessing, serves the latest
// stored analysis snapshots, and provides health checks and Prometheus
// metrics. This package sets up the routes for that HTTP server.
//
// Routes configured:
//   - POST /api/v1/analyses/performance - Analyze performance telemetry
//   - POST /api/v1/analyses/resources - Analyze pod resource usage
//   - GET /api/v1/analyses/latest?target=<name> - Retrieve latest snapshot
//   - GET /healthz - Health check endpoint (returns 200 OK)
//   - GET /metrics - Prometheus metrics endpoint
//
// Snapshots older than the stale threshold include an X-Plog-Stale header.
// Errors are returned in a JSON envelope with a machine-readable code:
// invalid_payload, missing_target, not_found, or internal_error.
package router

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/team-Plog/plog-sub001/cmd/analyzer/metrics"
	"github.com/team-Plog/plog-sub001/pkg/analysis"
	"github.com/team-Plog/plog-sub001/pkg/httpx"
	"github.com/team-Plog/plog-sub001/pkg/storage"
	"github.com/team-Plog/plog-sub001/pkg/telemetry"
)

// Error codes returned in the error envelope.
const (
	CodeInvalidPayload = "invalid_payload"
	CodeMissingTarget  = "missing_target"
	CodeNotFound       = "not_found"
	CodeInternalError  = "internal_error"
)

// performanceRequest is the body of POST /api/v1/analyses/performance.
// Trim overrides the server default when present. Target is optional;
// when set, the result is stored as the latest snapshot for that target.
type performanceRequest struct {
	Target string            `json:"target,omitempty"`
	Trim   *bool             `json:"trim,omitempty"`
	Points []telemetry.Point `json:"points"`
}

type resourceRequest struct {
	Target string                     `json:"target,omitempty"`
	Trim   *bool                      `json:"trim,omitempty"`
	Series []telemetry.ResourceSeries `json:"series"`
}

type performanceResponse struct {
	ID        string            `json:"id"`
	Summary   string            `json:"summary"`
	Received  int               `json:"received"`
	Retained  int               `json:"retained"`
	Scenarios int               `json:"scenarios"`
	Points    []telemetry.Point `json:"points"`
}

type resourceResponse struct {
	ID       string                     `json:"id"`
	Summary  string                     `json:"summary"`
	Received int                        `json:"received"`
	Retained int                        `json:"retained"`
	Series   []telemetry.ResourceSeries `json:"series"`
}

// SetupRoutes configures HTTP endpoints for the analyzer.
func SetupRoutes(engine *analysis.Engine, store storage.Store, defaultTrim bool, staleAfter time.Duration, m *metrics.Metrics, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.Handle("/healthz", httpx.HealthHandler())

	// Analysis endpoints
	mux.HandleFunc("POST /api/v1/analyses/performance", handleAnalyzePerformance(engine, store, defaultTrim, m, logger))
	mux.HandleFunc("POST /api/v1/analyses/resources", handleAnalyzeResources(engine, store, defaultTrim, m, logger))
	mux.HandleFunc("GET /api/v1/analyses/latest", handleGetLatest(store, staleAfter, logger))

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// handleAnalyzePerformance returns a handler for POST /api/v1/analyses/performance.
func handleAnalyzePerformance(engine *analysis.Engine, store storage.Store, defaultTrim bool, m *metrics.Metrics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req performanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteErrorCode(w, http.StatusBadRequest, CodeInvalidPayload, "invalid request body: "+err.Error())
			return
		}

		trim := defaultTrim
		if req.Trim != nil {
			trim = *req.Trim
		}

		start := time.Now()
		result := engine.AnalyzePerformance(req.Points, trim)
		m.RecordAnalysis(string(storage.KindPerformance), "ok", time.Since(start).Seconds())
		m.RecordDiscarded(string(storage.KindPerformance), result.Received-result.Retained)

		id := uuid.NewString()
		if req.Target != "" {
			snap := storage.Snapshot{
				ID:          id,
				Target:      req.Target,
				Kind:        storage.KindPerformance,
				GeneratedAt: time.Now(),
				Summary:     result.Summary,
				Received:    result.Received,
				Retained:    result.Retained,
			}
			if err := store.Put(snap); err != nil {
				logger.Error("failed to store snapshot", "target", req.Target, "error", err)
				m.RecordError("store", "put_failed")
				httpx.WriteErrorCode(w, http.StatusInternalServerError, CodeInternalError, "failed to store snapshot")
				return
			}
		}

		logger.Info("performance analysis complete",
			"id", id,
			"target", req.Target,
			"received", result.Received,
			"retained", result.Retained,
			"scenarios", result.Scenarios,
		)

		httpx.WriteJSON(w, http.StatusOK, performanceResponse{
			ID:        id,
			Summary:   result.Summary,
			Received:  result.Received,
			Retained:  result.Retained,
			Scenarios: result.Scenarios,
			Points:    result.Cleaned,
		})
	}
}

// handleAnalyzeResources returns a handler for POST /api/v1/analyses/resources.
func handleAnalyzeResources(engine *analysis.Engine, store storage.Store, defaultTrim bool, m *metrics.Metrics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resourceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteErrorCode(w, http.StatusBadRequest, CodeInvalidPayload, "invalid request body: "+err.Error())
			return
		}

		trim := defaultTrim
		if req.Trim != nil {
			trim = *req.Trim
		}

		start := time.Now()
		result := engine.AnalyzeResources(req.Series, trim)
		m.RecordAnalysis(string(storage.KindResource), "ok", time.Since(start).Seconds())
		m.RecordDiscarded(string(storage.KindResource), result.Received-result.Retained)

		id := uuid.NewString()
		if req.Target != "" {
			snap := storage.Snapshot{
				ID:          id,
				Target:      req.Target,
				Kind:        storage.KindResource,
				GeneratedAt: time.Now(),
				Summary:     result.Summary,
				Received:    result.Received,
				Retained:    result.Retained,
			}
			if err := store.Put(snap); err != nil {
				logger.Error("failed to store snapshot", "target", req.Target, "error", err)
				m.RecordError("store", "put_failed")
				httpx.WriteErrorCode(w, http.StatusInternalServerError, CodeInternalError, "failed to store snapshot")
				return
			}
		}

		logger.Info("resource analysis complete",
			"id", id,
			"target", req.Target,
			"received", result.Received,
			"retained", result.Retained,
		)

		httpx.WriteJSON(w, http.StatusOK, resourceResponse{
			ID:       id,
			Summary:  result.Summary,
			Received: result.Received,
			Retained: result.Retained,
			Series:   result.Cleaned,
		})
	}
}

// handleGetLatest returns a handler for GET /api/v1/analyses/latest?target=<name>.
func handleGetLatest(store storage.Store, staleAfter time.Duration, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("target")
		if target == "" {
			httpx.WriteErrorCode(w, http.StatusBadRequest, CodeMissingTarget, "target parameter required")
			return
		}

		snapshot, found, err := store.GetLatest(target)
		if err != nil {
			logger.Error("failed to get snapshot", "target", target, "error", err)
			httpx.WriteErrorCode(w, http.StatusInternalServerError, CodeInternalError, "internal server error")
			return
		}

		if !found {
			httpx.WriteErrorCode(w, http.StatusNotFound, CodeNotFound, fmt.Sprintf("snapshot not found for target %q", target))
			return
		}

		if staleAfter > 0 && time.Since(snapshot.GeneratedAt) > staleAfter {
			w.Header().Set("X-Plog-Stale", "true")
		}

		httpx.WriteJSON(w, http.StatusOK, snapshot)
	}
}
