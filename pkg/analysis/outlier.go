// Package analysis implements the load-test telemetry preprocessing and
// pattern-inference engine: steady-state trimming, statistical outlier
// rejection, trend and load-shape classification, and correlation analysis
// between driving load and observed throughput.
//
// Every function in this package is a pure computation over its input slice.
// Cleaning returns a filtered copy, never an in-place edit, and preserves the
// relative chronological order of retained records. Nothing holds cross-call
// state, so concurrent invocations on independent inputs need no
// coordination.
//
// The package trades precision for availability: a sample too small for a
// statistic falls back to the unfiltered input or a sentinel label, and the
// two pipeline entry points on Engine never return an error.
package analysis

import (
	"math"

	"github.com/team-Plog/plog-sub001/pkg/telemetry"
)

const (
	// zScoreThreshold is the |z| above which a sample counts as an outlier.
	zScoreThreshold = 2.5

	// minOutlierSamples is the smallest series worth a standard deviation.
	minOutlierSamples = 5
)

// ValueFunc extracts the numeric value an outlier pass is keyed on.
// The second return reports whether the record carries the field at all;
// records without it are retained unconditionally.
type ValueFunc func(telemetry.Point) (float64, bool)

// TPSValue keys a filter pass on the throughput field.
func TPSValue(p telemetry.Point) (float64, bool) {
	if p.TPS == nil {
		return 0, false
	}
	return *p.TPS, true
}

// FilterOutliers removes records whose keyed value lies more than
// zScoreThreshold sample standard deviations from the mean.
//
// Series with fewer than minOutlierSamples records (or fewer than that many
// records carrying the keyed field) are returned unchanged, as is a series
// with zero deviation, where a z-score is meaningless. If filtering would
// drop every record the original series is returned instead; the filter
// never silently discards all data.
func FilterOutliers(points []telemetry.Point, value ValueFunc) []telemetry.Point {
	if len(points) < minOutlierSamples {
		return points
	}

	values := make([]float64, 0, len(points))
	for _, p := range points {
		if v, ok := value(p); ok {
			values = append(values, v)
		}
	}
	if len(values) < minOutlierSamples {
		return points
	}

	mu := mean(values)
	sigma := sampleStdDev(values, mu)
	if sigma == 0 {
		return points
	}

	filtered := make([]telemetry.Point, 0, len(points))
	for _, p := range points {
		v, ok := value(p)
		if !ok {
			filtered = append(filtered, p)
			continue
		}
		if math.Abs(v-mu)/sigma <= zScoreThreshold {
			filtered = append(filtered, p)
		}
	}

	if len(filtered) == 0 {
		return points
	}
	return filtered
}
