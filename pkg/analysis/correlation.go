package analysis

import (
	"fmt"
	"math"

	"github.com/team-Plog/plog-sub001/pkg/telemetry"
)

// CorrelationCategory labels the strength of the load/throughput relation.
type CorrelationCategory string

const (
	CorrelationStrongPositive   CorrelationCategory = "strong-positive"
	CorrelationModeratePositive CorrelationCategory = "moderate-positive"
	CorrelationWeakPositive     CorrelationCategory = "weak-positive"
	CorrelationNone             CorrelationCategory = "no-correlation"
	CorrelationInsufficient     CorrelationCategory = "insufficient-data"
	CorrelationError            CorrelationCategory = "calculation-error"
)

// ScalingPattern labels how throughput responds to added load.
type ScalingPattern string

const (
	ScalingLinear       ScalingPattern = "linear-scaling"
	ScalingModerate     ScalingPattern = "moderate-scaling"
	ScalingPoor         ScalingPattern = "poor-scaling"
	ScalingBottlenecked ScalingPattern = "bottlenecked"
)

const (
	minCorrelationPoints = 10
	minCorrelationPairs  = 5
)

// Correlation is the result of relating concurrent load to observed
// throughput over the points where both are present and positive.
type Correlation struct {
	Category     CorrelationCategory
	Pattern      ScalingPattern
	Coefficient  float64
	ScalingRatio float64
	VUMin, VUMax float64
	TPSMin       float64
	TPSMax       float64
}

// Correlate computes the Pearson correlation between virtual-user count and
// throughput and classifies the scaling behavior.
//
// It needs at least minCorrelationPoints input points and, of those, at
// least minCorrelationPairs where both VUs and TPS are present and strictly
// positive; otherwise the category is insufficient-data. Degenerate variance
// (either series flat) yields calculation-error rather than a fabricated
// coefficient.
func Correlate(points []telemetry.Point) Correlation {
	if len(points) < minCorrelationPoints {
		return Correlation{Category: CorrelationInsufficient}
	}

	var vus, tps []float64
	for _, p := range points {
		if p.VUs == nil || p.TPS == nil {
			continue
		}
		if *p.VUs <= 0 || *p.TPS <= 0 {
			continue
		}
		vus = append(vus, *p.VUs)
		tps = append(tps, *p.TPS)
	}
	if len(vus) < minCorrelationPairs {
		return Correlation{Category: CorrelationInsufficient}
	}

	r, err := pearson(vus, tps)
	if err != nil {
		return Correlation{Category: CorrelationError}
	}

	c := Correlation{Coefficient: r}
	c.VUMin, c.VUMax = minMax(vus)
	c.TPSMin, c.TPSMax = minMax(tps)

	if vuRange := c.VUMax - c.VUMin; vuRange != 0 {
		c.ScalingRatio = (c.TPSMax - c.TPSMin) / vuRange
	}

	switch {
	case r >= 0.8:
		c.Category, c.Pattern = CorrelationStrongPositive, ScalingLinear
	case r >= 0.6:
		c.Category, c.Pattern = CorrelationModeratePositive, ScalingModerate
	case r >= 0.3:
		c.Category, c.Pattern = CorrelationWeakPositive, ScalingPoor
	default:
		c.Category, c.Pattern = CorrelationNone, ScalingBottlenecked
	}

	return c
}

// pearson computes the Pearson correlation coefficient of two equal-length
// series. It fails on degenerate variance or a non-finite result.
func pearson(xs, ys []float64) (float64, error) {
	n := float64(len(xs))
	meanX := mean(xs)
	meanY := mean(ys)

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	denom := math.Sqrt(varX * varY)
	if denom == 0 || n < 2 {
		return 0, fmt.Errorf("degenerate variance")
	}

	r := cov / denom
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, fmt.Errorf("non-finite coefficient")
	}
	return r, nil
}

// Describe renders the correlation as a single report fragment.
func (c Correlation) Describe() string {
	switch c.Category {
	case CorrelationInsufficient:
		return "insufficient data for correlation"
	case CorrelationError:
		return "correlation could not be computed"
	default:
		return fmt.Sprintf("%s (r=%.2f), %s, ratio %.2f tps/vu",
			c.Category, c.Coefficient, c.Pattern, c.ScalingRatio)
	}
}
