package collectors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fakePrometheus answers query_range with a fixed matrix per query substring.
func fakePrometheus(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/query_range") {
			http.NotFound(w, r)
			return
		}
		query := r.FormValue("query")
		for substr, body := range responses {
			if strings.Contains(query, substr) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, body)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"success","data":{"resultType":"matrix","result":[]}}`)
	}))
}

func matrixBody(results ...string) string {
	return fmt.Sprintf(`{"status":"success","data":{"resultType":"matrix","result":[%s]}}`,
		strings.Join(results, ","))
}

func TestPrometheusCollectorGroupsByPod(t *testing.T) {
	cpu := matrixBody(
		`{"metric":{"pod":"checkout-abc"},"values":[[1700000000,"40"],[1700000060,"45"]]}`,
		`{"metric":{"pod":"inventory-def"},"values":[[1700000000,"10"]]}`,
	)
	mem := matrixBody(
		`{"metric":{"pod":"checkout-abc"},"values":[[1700000000,"60"],[1700000060,"62"]]}`,
	)

	server := fakePrometheus(t, map[string]string{
		"cpu_usage_seconds_total":  cpu,
		"memory_working_set_bytes": mem,
	})
	defer server.Close()

	collector, err := NewPrometheusCollector(server.URL, "", "", time.Minute)
	if err != nil {
		t.Fatalf("NewPrometheusCollector() error = %v", err)
	}

	series, err := collector.Collect(context.Background(), 10*time.Minute)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(series) != 2 {
		t.Fatalf("len(series) = %d, want 2", len(series))
	}

	// Sorted by pod name.
	if series[0].PodName != "checkout-abc" {
		t.Errorf("series[0].PodName = %q, want %q", series[0].PodName, "checkout-abc")
	}
	if series[1].PodName != "inventory-def" {
		t.Errorf("series[1].PodName = %q, want %q", series[1].PodName, "inventory-def")
	}

	checkout := series[0]
	if len(checkout.Points) != 2 {
		t.Fatalf("checkout points = %d, want 2", len(checkout.Points))
	}
	if checkout.Points[0].CPUPercent != 40 {
		t.Errorf("point[0].CPUPercent = %v, want 40", checkout.Points[0].CPUPercent)
	}
	if checkout.Points[0].MemoryPercent != 60 {
		t.Errorf("point[0].MemoryPercent = %v, want 60", checkout.Points[0].MemoryPercent)
	}
	if !checkout.Points[0].Timestamp.Before(checkout.Points[1].Timestamp) {
		t.Error("points not sorted by timestamp")
	}

	// inventory has no memory samples; CPU only.
	inventory := series[1]
	if len(inventory.Points) != 1 {
		t.Fatalf("inventory points = %d, want 1", len(inventory.Points))
	}
	if inventory.Points[0].MemoryPercent != 0 {
		t.Errorf("inventory MemoryPercent = %v, want 0", inventory.Points[0].MemoryPercent)
	}
}

func TestPrometheusCollectorSkipsUnlabeledSeries(t *testing.T) {
	cpu := matrixBody(
		`{"metric":{},"values":[[1700000000,"40"]]}`,
	)

	server := fakePrometheus(t, map[string]string{
		"cpu_usage_seconds_total": cpu,
	})
	defer server.Close()

	collector, err := NewPrometheusCollector(server.URL, "", "", time.Minute)
	if err != nil {
		t.Fatalf("NewPrometheusCollector() error = %v", err)
	}

	series, err := collector.Collect(context.Background(), 10*time.Minute)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(series) != 0 {
		t.Errorf("len(series) = %d, want 0", len(series))
	}
}

func TestPrometheusCollectorRequiresURL(t *testing.T) {
	if _, err := NewPrometheusCollector("", "", "", time.Minute); err == nil {
		t.Fatal("NewPrometheusCollector() error = nil, want error")
	}
}

func TestPrometheusCollectorServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	collector, err := NewPrometheusCollector(server.URL, "", "", time.Minute)
	if err != nil {
		t.Fatalf("NewPrometheusCollector() error = %v", err)
	}

	if _, err := collector.Collect(context.Background(), 10*time.Minute); err == nil {
		t.Fatal("Collect() error = nil, want error")
	}
}

func TestPrometheusCollectorName(t *testing.T) {
	collector, err := NewPrometheusCollector("http://localhost:9090", "", "", time.Minute)
	if err != nil {
		t.Fatalf("NewPrometheusCollector() error = %v", err)
	}
	if collector.Name() != "prometheus" {
		t.Errorf("Name() = %q, want %q", collector.Name(), "prometheus")
	}
}
