package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/team-Plog/plog-sub001/pkg/storage"
)

func TestNewAnalyzerClient(t *testing.T) {
	client := NewAnalyzerClient("http://localhost:8081")
	if client == nil {
		t.Fatal("NewAnalyzerClient returned nil")
	}
	if client.baseURL != "http://localhost:8081" {
		t.Errorf("baseURL = %q, want %q", client.baseURL, "http://localhost:8081")
	}
	if client.httpClient.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", client.httpClient.Timeout)
	}
}

func TestNewAnalyzerClientWithTimeout(t *testing.T) {
	timeout := 10 * time.Second
	client := NewAnalyzerClientWithTimeout("http://localhost:8081", timeout)
	if client.httpClient.Timeout != timeout {
		t.Errorf("timeout = %v, want %v", client.httpClient.Timeout, timeout)
	}
}

func TestAnalyzerClient_GetSnapshot_Success(t *testing.T) {
	// Create fake analyzer server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/analyses/latest" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("target") != "checkout" {
			t.Errorf("unexpected target: %s", r.URL.Query().Get("target"))
		}

		resp := SnapshotResponse{
			ID:          "a1b2c3",
			Target:      "checkout",
			Kind:        "performance",
			GeneratedAt: time.Now(),
			Summary:     "Performance telemetry summary:",
			Received:    20,
			Retained:    17,
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewAnalyzerClient(server.URL)
	result, err := client.GetSnapshot(context.Background(), "checkout")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}

	if result.Stale {
		t.Error("Expected Stale = false")
	}

	snapshot := result.Snapshot
	if snapshot.Target != "checkout" {
		t.Errorf("Target = %q, want %q", snapshot.Target, "checkout")
	}
	if snapshot.Kind != storage.KindPerformance {
		t.Errorf("Kind = %q, want %q", snapshot.Kind, storage.KindPerformance)
	}
	if snapshot.Received != 20 {
		t.Errorf("Received = %d, want 20", snapshot.Received)
	}
	if snapshot.Retained != 17 {
		t.Errorf("Retained = %d, want 17", snapshot.Retained)
	}
}

func TestAnalyzerClient_GetSnapshot_Stale(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Plog-Stale", "true")
		w.Header().Set("Content-Type", "application/json")

		resp := SnapshotResponse{
			Target:      "checkout",
			GeneratedAt: time.Now().Add(-5 * time.Minute),
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewAnalyzerClient(server.URL)
	result, err := client.GetSnapshot(context.Background(), "checkout")
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}

	if !result.Stale {
		t.Error("Expected Stale = true")
	}
}

func TestAnalyzerClient_GetSnapshot_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		if err := json.NewEncoder(w).Encode(map[string]string{"error": "snapshot not found"}); err != nil {
			t.Errorf("failed to encode error response: %v", err)
		}
	}))
	defer server.Close()

	client := NewAnalyzerClient(server.URL)
	_, err := client.GetSnapshot(context.Background(), "nonexistent")
	if err == nil {
		t.Fatal("Expected error for not found snapshot")
	}
}

func TestAnalyzerClient_GetSnapshot_EmptyTarget(t *testing.T) {
	client := NewAnalyzerClient("http://localhost:8081")
	_, err := client.GetSnapshot(context.Background(), "")
	if err == nil {
		t.Fatal("Expected error for empty target")
	}
}

func TestAnalyzerClient_GetSnapshot_InvalidURL(t *testing.T) {
	client := NewAnalyzerClient("://invalid-url")
	_, err := client.GetSnapshot(context.Background(), "test")
	if err == nil {
		t.Fatal("Expected error for invalid URL")
	}
}

func TestAnalyzerClient_GetSnapshot_ContextCancellation(t *testing.T) {
	// Server that delays response
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		if err := json.NewEncoder(w).Encode(SnapshotResponse{}); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewAnalyzerClient(server.URL)

	// Cancel context immediately
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetSnapshot(ctx, "checkout")
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

func TestAnalyzerClient_GetSnapshot_Timeout(t *testing.T) {
	// Server that delays response longer than client timeout
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		if err := json.NewEncoder(w).Encode(SnapshotResponse{}); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	// Client with very short timeout
	client := NewAnalyzerClientWithTimeout(server.URL, 10*time.Millisecond)

	_, err := client.GetSnapshot(context.Background(), "checkout")
	if err == nil {
		t.Fatal("Expected timeout error")
	}
}

func TestAnalyzerClient_GetSnapshot_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte("invalid json")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := NewAnalyzerClient(server.URL)
	_, err := client.GetSnapshot(context.Background(), "checkout")
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
}

func TestAnalyzerClient_GetSnapshot_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewAnalyzerClient(server.URL)
	_, err := client.GetSnapshot(context.Background(), "checkout")
	if err == nil {
		t.Fatal("Expected error for server error")
	}
}

func TestIsStale(t *testing.T) {
	tests := []struct {
		name        string
		generatedAt time.Time
		staleAfter  time.Duration
		want        bool
	}{
		{
			name:        "fresh snapshot",
			generatedAt: time.Now().Add(-30 * time.Second),
			staleAfter:  2 * time.Minute,
			want:        false,
		},
		{
			name:        "stale snapshot",
			generatedAt: time.Now().Add(-5 * time.Minute),
			staleAfter:  2 * time.Minute,
			want:        true,
		},
		{
			name:        "just before threshold",
			generatedAt: time.Now().Add(-1*time.Minute - 59*time.Second),
			staleAfter:  2 * time.Minute,
			want:        false,
		},
		{
			name:        "very old snapshot",
			generatedAt: time.Now().Add(-1 * time.Hour),
			staleAfter:  2 * time.Minute,
			want:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := storage.Snapshot{GeneratedAt: tt.generatedAt}
			if got := IsStale(snapshot, tt.staleAfter); got != tt.want {
				t.Errorf("IsStale() = %v, want %v", got, tt.want)
			}
		})
	}
}
