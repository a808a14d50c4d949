// Package collectors provides data source connectors that retrieve pod
// resource usage from external monitoring systems and normalize it into
// telemetry series for analysis.
package collectors

import (
	"context"
	"time"

	"github.com/team-Plog/plog-sub001/pkg/telemetry"
)

// Collector fetches resource usage series for all pods visible to the
// backing monitoring system over the given window.
//
// Collect is synchronous and must respect context cancellation and
// deadlines. It must handle transient errors gracefully and never panic.
type Collector interface {
	Collect(ctx context.Context, window time.Duration) ([]telemetry.ResourceSeries, error)

	// Name returns a short, unique identifier for the collector.
	Name() string
}
