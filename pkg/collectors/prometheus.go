package collectors

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	"github.com/team-Plog/plog-sub001/pkg/telemetry"
)

// Default PromQL expressions. CPU is reported as percent of one core,
// memory as percent of the container limit.
const (
	defaultCPUQuery = `sum by (pod) (rate(container_cpu_usage_seconds_total{container!="POD",container!=""}[5m])) * 100`
	defaultMemQuery = `sum by (pod) (container_memory_working_set_bytes{container!="POD",container!=""}) / sum by (pod) (container_spec_memory_limit_bytes{container!="POD",container!=""} > 0) * 100`
)

// PrometheusCollector fetches per-pod CPU and memory usage from the
// Prometheus HTTP API via query_range and groups the results into one
// ResourceSeries per pod. Service type is left empty; callers resolve it
// through the metadata client.
type PrometheusCollector struct {
	queryAPI v1.API
	cpuQuery string
	memQuery string
	step     time.Duration
}

// NewPrometheusCollector creates a collector against the Prometheus server
// at serverURL. Empty cpuQuery or memQuery fall back to built-in defaults;
// a non-positive step falls back to one minute.
func NewPrometheusCollector(serverURL, cpuQuery, memQuery string, step time.Duration) (*PrometheusCollector, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("prometheus collector: server URL is required")
	}

	client, err := api.NewClient(api.Config{Address: serverURL})
	if err != nil {
		return nil, fmt.Errorf("creating prometheus client: %w", err)
	}

	if cpuQuery == "" {
		cpuQuery = defaultCPUQuery
	}
	if memQuery == "" {
		memQuery = defaultMemQuery
	}
	if step <= 0 {
		step = time.Minute
	}

	return &PrometheusCollector{
		queryAPI: v1.NewAPI(client),
		cpuQuery: cpuQuery,
		memQuery: memQuery,
		step:     step,
	}, nil
}

func (p *PrometheusCollector) Name() string { return "prometheus" }

// Collect queries CPU and memory usage for the last window and returns one
// series per pod, sorted by pod name with points in timestamp order.
func (p *PrometheusCollector) Collect(ctx context.Context, window time.Duration) ([]telemetry.ResourceSeries, error) {
	end := time.Now().UTC().Truncate(time.Second)
	r := v1.Range{
		Start: end.Add(-window),
		End:   end,
		Step:  p.step,
	}

	cpuResult, _, err := p.queryAPI.QueryRange(ctx, p.cpuQuery, r)
	if err != nil {
		return nil, fmt.Errorf("querying cpu usage: %w", err)
	}

	memResult, _, err := p.queryAPI.QueryRange(ctx, p.memQuery, r)
	if err != nil {
		return nil, fmt.Errorf("querying memory usage: %w", err)
	}

	pods := make(map[string]map[time.Time]*telemetry.UsagePoint)
	mergeMatrix(pods, cpuResult, func(pt *telemetry.UsagePoint, v float64) { pt.CPUPercent = v })
	mergeMatrix(pods, memResult, func(pt *telemetry.UsagePoint, v float64) { pt.MemoryPercent = v })

	series := make([]telemetry.ResourceSeries, 0, len(pods))
	for pod, byTime := range pods {
		points := make([]telemetry.UsagePoint, 0, len(byTime))
		for _, pt := range byTime {
			points = append(points, *pt)
		}
		sort.Slice(points, func(i, j int) bool {
			return points[i].Timestamp.Before(points[j].Timestamp)
		})
		series = append(series, telemetry.ResourceSeries{
			PodName: pod,
			Points:  points,
		})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].PodName < series[j].PodName
	})

	return series, nil
}

// mergeMatrix folds one query result into the per-pod point map. Samples
// without a pod label or with non-finite values are skipped.
func mergeMatrix(pods map[string]map[time.Time]*telemetry.UsagePoint, result model.Value, set func(*telemetry.UsagePoint, float64)) {
	matrix, ok := result.(model.Matrix)
	if !ok {
		return
	}

	for _, stream := range matrix {
		pod := string(stream.Metric["pod"])
		if pod == "" {
			continue
		}

		byTime := pods[pod]
		if byTime == nil {
			byTime = make(map[time.Time]*telemetry.UsagePoint)
			pods[pod] = byTime
		}

		for _, sample := range stream.Values {
			v := float64(sample.Value)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			ts := sample.Timestamp.Time().UTC()
			pt := byTime[ts]
			if pt == nil {
				pt = &telemetry.UsagePoint{Timestamp: ts}
				byTime[ts] = pt
			}
			set(pt, v)
		}
	}
}
