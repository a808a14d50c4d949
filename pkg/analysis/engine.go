package analysis

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/team-Plog/plog-sub001/pkg/telemetry"
)

// Fixed report lines for the degenerate cases. Downstream consumers diff
// summary text, so these are part of the presentation contract.
const (
	NoPerformanceData = "no telemetry data available"
	NoResourceData    = "no resource usage data available"

	performanceFailure = "analysis failed; returning original telemetry unmodified"
	resourceFailure    = "analysis failed; returning original resource data unmodified"
)

// Engine is the pipeline orchestrator: the two top-level entry points that
// route telemetry through trimming, trend, load-shape, and correlation
// analysis and assemble the report text.
//
// Both entry points are total: internal failures are caught at the boundary,
// logged, and reported by returning the original input together with a fixed
// failure message. A caller never receives a hard error from the engine.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an analysis engine. A nil logger falls back to
// slog.Default().
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// AnalyzePerformance cleans and characterizes a performance telemetry
// series.
//
// The input is partitioned into aggregate samples (no scenario tag) and
// per-scenario samples; each partition is steady-state trimmed when trim is
// set. Trends for throughput, response time, and error rate plus the load
// shape (and, for ramp profiles, the load/throughput correlation) are read
// from the aggregate partition, falling back to the full cleaned set when no
// aggregate samples exist. The cleaned output is the aggregate partition
// followed by the per-scenario partition, each in chronological order.
func (e *Engine) AnalyzePerformance(points []telemetry.Point, trim bool) (result telemetry.PerformanceResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("performance analysis panicked", "reason", r, "points", len(points))
			result = telemetry.PerformanceResult{
				Cleaned:  points,
				Summary:  performanceFailure,
				Received: len(points),
				Retained: len(points),
			}
		}
	}()

	if len(points) == 0 {
		return telemetry.PerformanceResult{
			Cleaned: []telemetry.Point{},
			Summary: NoPerformanceData,
		}
	}

	var aggregate, scenario []telemetry.Point
	scenarios := map[string]struct{}{}
	for _, p := range points {
		if p.Scenario == "" {
			aggregate = append(aggregate, p)
		} else {
			scenario = append(scenario, p)
			scenarios[p.Scenario] = struct{}{}
		}
	}

	if trim {
		aggregate = TrimSteadyState(aggregate)
		scenario = TrimSteadyState(scenario)
	} else {
		aggregate = trimNothing(aggregate)
		scenario = trimNothing(scenario)
	}

	cleaned := make([]telemetry.Point, 0, len(aggregate)+len(scenario))
	cleaned = append(cleaned, aggregate...)
	cleaned = append(cleaned, scenario...)

	sample := aggregate
	if len(sample) == 0 {
		sample = cleaned
	}

	result = telemetry.PerformanceResult{
		Cleaned:   cleaned,
		Received:  len(points),
		Retained:  len(cleaned),
		Scenarios: len(scenarios),
	}
	result.Summary = e.performanceSummary(sample, result)

	e.logger.Debug("performance analysis complete",
		"received", result.Received,
		"retained", result.Retained,
		"scenarios", result.Scenarios,
		"trimmed", trim,
	)
	return result
}

func (e *Engine) performanceSummary(sample []telemetry.Point, result telemetry.PerformanceResult) string {
	var b strings.Builder
	b.WriteString("Performance telemetry summary:\n")
	fmt.Fprintf(&b, "- samples: %d retained (%d received)\n", result.Retained, result.Received)
	fmt.Fprintf(&b, "- scenarios: %d\n", result.Scenarios)

	fmt.Fprintf(&b, "- tps trend: %s\n", ClassifyTrend(pointValues(sample, func(p telemetry.Point) *float64 { return p.TPS })))
	fmt.Fprintf(&b, "- avg response time trend: %s\n", ClassifyTrend(pointValues(sample, func(p telemetry.Point) *float64 { return p.AvgResponseTime })))
	fmt.Fprintf(&b, "- error rate trend: %s\n", ClassifyTrend(pointValues(sample, func(p telemetry.Point) *float64 { return p.ErrorRate })))

	shape := ClassifyLoadShape(pointValues(sample, func(p telemetry.Point) *float64 { return p.VUs }))
	fmt.Fprintf(&b, "- load shape: %s", shape.Describe())

	if shape.IsRamp() {
		fmt.Fprintf(&b, "\n- load/throughput correlation: %s", Correlate(sample).Describe())
	}

	return b.String()
}

// AnalyzeResources cleans and characterizes per-pod resource usage traces.
//
// Series are grouped by pod name (duplicate pod entries are merged in
// arrival order), pods without any usable data points are dropped before
// analysis, each surviving series is optionally trimmed, and the summary
// carries a CPU and memory trend line per pod.
func (e *Engine) AnalyzeResources(series []telemetry.ResourceSeries, trim bool) (result telemetry.ResourceResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("resource analysis panicked", "reason", r, "series", len(series))
			result = telemetry.ResourceResult{
				Cleaned:  series,
				Summary:  resourceFailure,
				Received: countUsagePoints(series),
				Retained: countUsagePoints(series),
			}
		}
	}()

	grouped := groupByPod(series)
	if len(grouped) == 0 {
		return telemetry.ResourceResult{
			Cleaned: []telemetry.ResourceSeries{},
			Summary: NoResourceData,
		}
	}

	received := countUsagePoints(series)

	var b strings.Builder
	b.WriteString("Resource usage summary:")

	cleaned := make([]telemetry.ResourceSeries, 0, len(grouped))
	for _, s := range grouped {
		points := s.Points
		if trim {
			points = TrimUsagePoints(points)
		}

		cleaned = append(cleaned, telemetry.ResourceSeries{
			PodName:     s.PodName,
			ServiceType: s.ServiceType,
			Points:      points,
		})

		serviceType := s.ServiceType
		if serviceType == "" {
			serviceType = "unknown"
		}

		cpu := usageValues(points, func(u telemetry.UsagePoint) float64 { return u.CPUPercent })
		memory := usageValues(points, func(u telemetry.UsagePoint) float64 { return u.MemoryPercent })

		fmt.Fprintf(&b, "\n- pod %s (service type: %s): %d samples retained (%d received)",
			s.PodName, serviceType, len(points), len(s.Points))
		fmt.Fprintf(&b, "\n  - cpu trend: %s (avg %.1f%%, peak %.1f%%)",
			ClassifyTrend(cpu), mean(cpu), peak(cpu))
		fmt.Fprintf(&b, "\n  - memory trend: %s (avg %.1f%%, peak %.1f%%)",
			ClassifyTrend(memory), mean(memory), peak(memory))
	}

	result = telemetry.ResourceResult{
		Cleaned:  cleaned,
		Summary:  b.String(),
		Received: received,
		Retained: countUsagePoints(cleaned),
	}

	e.logger.Debug("resource analysis complete",
		"pods", len(cleaned),
		"received", result.Received,
		"retained", result.Retained,
		"trimmed", trim,
	)
	return result
}

// groupByPod merges series that share a pod name, preserving first-seen pod
// order and point arrival order, and drops pods with no data points.
func groupByPod(series []telemetry.ResourceSeries) []telemetry.ResourceSeries {
	var order []string
	byPod := map[string]*telemetry.ResourceSeries{}

	for _, s := range series {
		existing, ok := byPod[s.PodName]
		if !ok {
			order = append(order, s.PodName)
			copied := telemetry.ResourceSeries{PodName: s.PodName, ServiceType: s.ServiceType}
			copied.Points = append(copied.Points, s.Points...)
			byPod[s.PodName] = &copied
			continue
		}
		existing.Points = append(existing.Points, s.Points...)
		if existing.ServiceType == "" {
			existing.ServiceType = s.ServiceType
		}
	}

	grouped := make([]telemetry.ResourceSeries, 0, len(order))
	for _, pod := range order {
		if len(byPod[pod].Points) == 0 {
			continue
		}
		grouped = append(grouped, *byPod[pod])
	}
	return grouped
}

// trimNothing normalizes a possibly-nil partition to a non-nil slice so the
// untrimmed path produces the same shapes as the trimmed one.
func trimNothing(points []telemetry.Point) []telemetry.Point {
	if points == nil {
		return []telemetry.Point{}
	}
	return points
}

func pointValues(points []telemetry.Point, field func(telemetry.Point) *float64) []float64 {
	values := make([]float64, 0, len(points))
	for _, p := range points {
		if v := field(p); v != nil {
			values = append(values, *v)
		}
	}
	return values
}

func usageValues(points []telemetry.UsagePoint, field func(telemetry.UsagePoint) float64) []float64 {
	values := make([]float64, 0, len(points))
	for _, u := range points {
		values = append(values, field(u))
	}
	return values
}

func countUsagePoints(series []telemetry.ResourceSeries) int {
	total := 0
	for _, s := range series {
		total += len(s.Points)
	}
	return total
}

func peak(values []float64) float64 {
	_, maxV := minMax(values)
	return maxV
}
