// Package telemetry defines the record shapes exchanged between the
// collectors, the analysis engine, and the HTTP API.
//
// All records are treated as immutable by the engine: cleaning produces a
// new filtered slice, never an in-place edit. Metric fields on Point are
// pointers because an absent sample is meaningfully different from a zero
// sample: absent values are excluded from the statistic they would feed.
package telemetry

import "time"

// Point is one sample of aggregate or per-scenario performance telemetry.
// An empty Scenario marks an aggregate (overall) sample.
type Point struct {
	Timestamp       time.Time `json:"timestamp"`
	Scenario        string    `json:"scenario_name,omitempty"`
	TPS             *float64  `json:"tps,omitempty"`
	AvgResponseTime *float64  `json:"avg_response_time,omitempty"`
	ErrorRate       *float64  `json:"error_rate,omitempty"`
	VUs             *float64  `json:"vus,omitempty"`
}

// UsagePoint is one per-pod resource sample.
type UsagePoint struct {
	Timestamp     time.Time `json:"timestamp"`
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
}

// ResourceSeries is the resource trace of a single pod.
type ResourceSeries struct {
	PodName     string       `json:"pod_name"`
	ServiceType string       `json:"service_type,omitempty"`
	Points      []UsagePoint `json:"points"`
}

// PerformanceResult is the output artifact of the performance pipeline:
// the cleaned points plus a human-readable summary.
type PerformanceResult struct {
	Cleaned   []Point `json:"cleaned_points"`
	Summary   string  `json:"summary"`
	Received  int     `json:"received"`
	Retained  int     `json:"retained"`
	Scenarios int     `json:"scenarios"`
}

// ResourceResult is the output artifact of the resource pipeline.
type ResourceResult struct {
	Cleaned  []ResourceSeries `json:"cleaned_series"`
	Summary  string           `json:"summary"`
	Received int              `json:"received"`
	Retained int              `json:"retained"`
}
