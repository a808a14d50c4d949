// Package metrics defines the analyzer's self-observability metrics.
//
// All metrics carry a "target" const label so several analyzer instances
// can share a Prometheus scrape without colliding. Metrics are registered
// on the default registry and exposed via /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all analyzer self-metrics.
type Metrics struct {
	AnalysesTotal        *prometheus.CounterVec
	AnalyzeSeconds       *prometheus.HistogramVec
	PointsDiscardedTotal *prometheus.CounterVec
	CollectSeconds       prometheus.Histogram
	SnapshotAgeSeconds   prometheus.Gauge
	ErrorsTotal          *prometheus.CounterVec
}

// New creates and registers analyzer metrics for one target.
func New(target string) *Metrics {
	constLabels := prometheus.Labels{"target": target}

	return &Metrics{
		AnalysesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "plog_analyzer_analyses_total",
			Help:        "Total number of completed analyses by kind and status",
			ConstLabels: constLabels,
		}, []string{"kind", "status"}),
		AnalyzeSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "plog_analyzer_analyze_seconds",
			Help:        "Time spent running one analysis",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		PointsDiscardedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "plog_analyzer_points_discarded_total",
			Help:        "Telemetry points removed by trimming and outlier filtering",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		CollectSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:        "plog_analyzer_collect_seconds",
			Help:        "Time spent collecting resource usage from the monitoring backend",
			ConstLabels: constLabels,
		}),
		SnapshotAgeSeconds: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "plog_analyzer_snapshot_age_seconds",
			Help:        "Age of the latest stored snapshot in seconds",
			ConstLabels: constLabels,
		}),
		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "plog_analyzer_errors_total",
			Help:        "Total number of errors by component and reason",
			ConstLabels: constLabels,
		}, []string{"component", "reason"}),
	}
}

// RecordAnalysis records one completed analysis with its duration.
func (m *Metrics) RecordAnalysis(kind, status string, seconds float64) {
	m.AnalysesTotal.WithLabelValues(kind, status).Inc()
	m.AnalyzeSeconds.WithLabelValues(kind).Observe(seconds)
}

// RecordDiscarded adds the number of points removed during preprocessing.
func (m *Metrics) RecordDiscarded(kind string, n int) {
	if n > 0 {
		m.PointsDiscardedTotal.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordCollect records the duration of one collection pass.
func (m *Metrics) RecordCollect(seconds float64) {
	m.CollectSeconds.Observe(seconds)
}

// SetSnapshotAge updates the age of the latest stored snapshot.
func (m *Metrics) SetSnapshotAge(seconds float64) {
	m.SnapshotAgeSeconds.Set(seconds)
}

// RecordError increments the error counter for a component and reason.
func (m *Metrics) RecordError(component, reason string) {
	m.ErrorsTotal.WithLabelValues(component, reason).Inc()
}
