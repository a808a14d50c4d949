package analysis

import (
	"sort"

	"github.com/team-Plog/plog-sub001/pkg/telemetry"
)

const (
	// minTrimSamples is the shortest series where steady state can be told
	// apart from startup and shutdown transients.
	minTrimSamples = 10

	headTrimRatio = 0.10
	tailTrimRatio = 0.05
)

// trimBounds returns the [lo, hi) index range that survives trimming a
// chronologically sorted series of length n. When the configured head and
// tail proportions would consume the whole series, the middle half is kept
// instead.
func trimBounds(n int) (lo, hi int) {
	lo = int(headTrimRatio * float64(n))
	tail := int(tailTrimRatio * float64(n))
	hi = n - tail
	if lo+tail >= n {
		return n / 4, n * 3 / 4
	}
	return lo, hi
}

// TrimSteadyState removes ramp-up and ramp-down transients from a
// performance series: it sorts by timestamp, drops the first 10% and last 5%
// of samples, and then rejects throughput outliers in the remaining window.
//
// Series shorter than minTrimSamples are returned unchanged, as they are
// too short to distinguish steady state from noise. The result is
// chronologically ordered.
//
// Trimming is not a fixed point: applying it twice re-trims the already
// shortened series by the same proportions. Callers that need idempotence
// must trim exactly once.
func TrimSteadyState(points []telemetry.Point) []telemetry.Point {
	trimmed := trimWindow(points)
	if len(trimmed) == len(points) {
		return trimmed
	}
	return FilterOutliers(trimmed, TPSValue)
}

func trimWindow(points []telemetry.Point) []telemetry.Point {
	if len(points) < minTrimSamples {
		return points
	}

	sorted := make([]telemetry.Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	lo, hi := trimBounds(len(sorted))
	return sorted[lo:hi]
}

// TrimUsagePoints trims a per-pod resource series the same way as
// TrimSteadyState but without the outlier pass: resource percentages are
// already bounded and legitimate spikes are signal, not noise.
func TrimUsagePoints(points []telemetry.UsagePoint) []telemetry.UsagePoint {
	if len(points) < minTrimSamples {
		return points
	}

	sorted := make([]telemetry.UsagePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	lo, hi := trimBounds(len(sorted))
	return sorted[lo:hi]
}
