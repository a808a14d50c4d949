package analysis

// Trend labels the direction of a numeric series.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// trendChangePercent is the relative change between the early and late
// sub-window means beyond which a series counts as trending.
const trendChangePercent = 10.0

// ClassifyTrend labels a series as increasing, decreasing, or stable by
// comparing the mean of its first half against the mean of its second half.
// On odd lengths the first half gets the extra element.
//
// Fewer than 3 values is insufficient signal and reads as stable. A zero
// first-half mean cannot anchor a percentage change; in that case the series
// is increasing iff the second half mean exceeds it, and stable otherwise.
func ClassifyTrend(values []float64) Trend {
	if len(values) < 3 {
		return TrendStable
	}

	mid := (len(values) + 1) / 2
	first := mean(values[:mid])
	second := mean(values[mid:])

	if first == 0 {
		if second > first {
			return TrendIncreasing
		}
		return TrendStable
	}

	change := (second - first) / first * 100
	switch {
	case change > trendChangePercent:
		return TrendIncreasing
	case change < -trendChangePercent:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
