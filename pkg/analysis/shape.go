package analysis

import (
	"fmt"
	"math"
)

// ShapePattern identifies the kind of load profile a virtual-user series
// represents.
type ShapePattern string

const (
	ShapeInsufficientData ShapePattern = "insufficient-data"
	ShapeConstant         ShapePattern = "constant"
	ShapeStagedRamp       ShapePattern = "staged-ramp"
	ShapeContinuousRamp   ShapePattern = "continuous-ramp"
	ShapeFineAdjustment   ShapePattern = "fine-adjustment"
	ShapeQuasiStable      ShapePattern = "quasi-stable"
)

const (
	// minShapeSamples is the smallest VU series worth classifying.
	minShapeSamples = 5

	// constantRange is the absolute VU range at or below which a load is
	// considered constant.
	constantRange = 5.0

	// stableDelta is the largest distance from the series mean at which a
	// point still counts as stable rather than a change-point.
	stableDelta = 1.0

	// rampVarianceRatio is the max/min ratio above which a changing series
	// is a genuine ramp rather than fine adjustment.
	rampVarianceRatio = 2.0

	// Stage detection parameters: a plateau must hold minStageRun samples
	// within stageTolerance of its level to commit as a stage, and at most
	// maxStages stages are ever reported.
	stageTolerance = 2.0
	minStageRun    = 5
	maxStages      = 5

	minStageSamples = 10
)

// LoadShape is the structured result of classifying a virtual-user series.
// Min, Max, Avg, and Range describe the raw series; Stages is meaningful
// only for ShapeStagedRamp.
type LoadShape struct {
	Pattern ShapePattern
	Stages  int
	Min     float64
	Max     float64
	Avg     float64
	Range   float64
}

// ClassifyLoadShape infers whether a virtual-user series represents a
// constant load, a staged ramp, a continuous ramp, or one of the mixed
// profiles in between.
//
// Each point is counted as stable or changing by its distance from the
// series mean. The decision walks in order: a tiny absolute range means
// constant; a series dominated by change-points is a ramp when its max/min
// ratio is large (staged if more than one plateau commits, continuous
// otherwise) and fine adjustment when the ratio is small; a series
// dominated by stable points is quasi-stable.
func ClassifyLoadShape(vus []float64) LoadShape {
	if len(vus) < minShapeSamples {
		return LoadShape{Pattern: ShapeInsufficientData}
	}

	minV, maxV := minMax(vus)
	shape := LoadShape{
		Min:   minV,
		Max:   maxV,
		Avg:   mean(vus),
		Range: maxV - minV,
	}

	varianceRatio := math.Inf(1)
	if minV != 0 {
		varianceRatio = maxV / minV
	}

	stable, changing := 0, 0
	for _, v := range vus {
		if math.Abs(v-shape.Avg) <= stableDelta {
			stable++
		} else {
			changing++
		}
	}

	switch {
	case shape.Range <= constantRange:
		shape.Pattern = ShapeConstant
	case changing > stable:
		if varianceRatio > rampVarianceRatio {
			shape.Stages = detectStages(vus)
			if shape.Stages > 1 {
				shape.Pattern = ShapeStagedRamp
			} else {
				shape.Pattern = ShapeContinuousRamp
			}
		} else {
			shape.Pattern = ShapeFineAdjustment
		}
	default:
		shape.Pattern = ShapeQuasiStable
	}

	return shape
}

// detectStages counts sustained VU plateaus by scanning for runs of at least
// minStageRun samples within stageTolerance of the run's opening value.
//
// A run only commits as a stage when the series transitions out of it, so
// the run still active at the end of the series is never counted even when
// it is long enough. Downstream summaries assume this exact count; keep the
// behavior when touching this.
func detectStages(vus []float64) int {
	if len(vus) < minStageSamples {
		return 1
	}

	stages := 0
	current := vus[0]
	run := 1

	for _, v := range vus[1:] {
		if math.Abs(v-current) <= stageTolerance {
			run++
			continue
		}
		if run >= minStageRun {
			stages++
		}
		current = v
		run = 1
	}

	if stages < 1 {
		return 1
	}
	if stages > maxStages {
		return maxStages
	}
	return stages
}

// Describe renders the shape as a single report fragment with the level and
// range details each pattern calls for.
func (s LoadShape) Describe() string {
	switch s.Pattern {
	case ShapeConstant:
		return fmt.Sprintf("constant at ~%.1f VUs", s.Avg)
	case ShapeStagedRamp:
		return fmt.Sprintf("staged ramp, %d stages (%.0f -> %.0f VUs)", s.Stages, s.Min, s.Max)
	case ShapeContinuousRamp:
		return fmt.Sprintf("continuous ramp (%.0f -> %.0f VUs)", s.Min, s.Max)
	case ShapeFineAdjustment:
		return fmt.Sprintf("fine adjustment around %.1f VUs (range %.1f)", s.Avg, s.Range)
	case ShapeQuasiStable:
		return fmt.Sprintf("quasi-stable around %.1f VUs (range %.1f)", s.Avg, s.Range)
	default:
		return "insufficient data"
	}
}

// IsRamp reports whether the shape is one of the ramp patterns, which gates
// the load/throughput correlation analysis.
func (s LoadShape) IsRamp() bool {
	return s.Pattern == ShapeStagedRamp || s.Pattern == ShapeContinuousRamp
}
