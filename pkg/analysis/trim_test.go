package analysis

import (
	"testing"
	"time"

	"github.com/team-Plog/plog-sub001/pkg/telemetry"
)

func TestTrimSteadyState_ShortSeriesUnchanged(t *testing.T) {
	for n := 0; n < minTrimSamples; n++ {
		values := make([]float64, n)
		for i := range values {
			values[i] = float64(n - i) // deliberately unsorted-looking values
		}
		points := perfPoints(values...)

		got := TrimSteadyState(points)
		if len(got) != n {
			t.Fatalf("n=%d: len = %d, want unchanged", n, len(got))
		}
		for i := range got {
			if !got[i].Timestamp.Equal(points[i].Timestamp) {
				t.Fatalf("n=%d: order or contents changed at index %d", n, i)
			}
		}
	}
}

func TestTrimSteadyState_Proportions(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int // n - floor(0.10n) - floor(0.05n)
	}{
		{"twenty samples", 20, 17},
		{"forty samples", 40, 34},
		{"hundred samples", 100, 85},
		{"ten samples", 10, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([]float64, tt.n)
			for i := range values {
				values[i] = 100 // uniform, so the outlier pass is a no-op
			}

			got := TrimSteadyState(perfPoints(values...))
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestTrimSteadyState_SortsByTimestamp(t *testing.T) {
	points := perfPoints(make([]float64, 20)...)
	// Reverse the chronological order on input.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}

	got := TrimSteadyState(points)
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Fatal("output not chronologically ordered")
		}
	}
}

func TestTrimSteadyState_DropsHeadAndTail(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 100
	}
	points := perfPoints(values...)

	got := TrimSteadyState(points)

	// floor(0.10*20)=2 head samples and floor(0.05*20)=1 tail sample go.
	if !got[0].Timestamp.Equal(points[2].Timestamp) {
		t.Errorf("first retained = %v, want %v", got[0].Timestamp, points[2].Timestamp)
	}
	if !got[len(got)-1].Timestamp.Equal(points[18].Timestamp) {
		t.Errorf("last retained = %v, want %v", got[len(got)-1].Timestamp, points[18].Timestamp)
	}
}

// Trimming is documented as a non-fixed-point: a second pass re-trims by the
// same proportions computed on the shorter length.
func TestTrimSteadyState_DoubleTrimShortensAgain(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 100
	}

	once := TrimSteadyState(perfPoints(values...))
	twice := TrimSteadyState(once)

	if len(once) != 34 {
		t.Fatalf("first pass len = %d, want 34", len(once))
	}
	// floor(0.10*34)=3 head, floor(0.05*34)=1 tail.
	if len(twice) != 30 {
		t.Errorf("second pass len = %d, want 30", len(twice))
	}
}

func TestTrimUsagePoints(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	points := make([]telemetry.UsagePoint, 20)
	for i := range points {
		points[i] = telemetry.UsagePoint{
			Timestamp:  base.Add(time.Duration(i) * time.Second),
			CPUPercent: float64(i),
		}
	}

	got := TrimUsagePoints(points)
	if len(got) != 17 {
		t.Fatalf("len = %d, want 17", len(got))
	}
	if got[0].CPUPercent != 2 || got[len(got)-1].CPUPercent != 18 {
		t.Errorf("retained window = [%.0f, %.0f], want [2, 18]", got[0].CPUPercent, got[len(got)-1].CPUPercent)
	}

	short := points[:9]
	if gotShort := TrimUsagePoints(short); len(gotShort) != 9 {
		t.Errorf("short series len = %d, want 9 (unchanged)", len(gotShort))
	}
}
