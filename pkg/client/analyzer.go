// Package client provides HTTP clients for communicating with plog services.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/team-Plog/plog-sub001/pkg/storage"
)

// AnalyzerClient is an HTTP client for fetching analysis snapshots from the
// analyzer service. It is safe for concurrent use by multiple goroutines.
type AnalyzerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAnalyzerClient creates a new client for the analyzer service.
// The baseURL should include the scheme and host (e.g., "http://localhost:8081").
// A default timeout of 5 seconds is used for HTTP requests.
func NewAnalyzerClient(baseURL string) *AnalyzerClient {
	return &AnalyzerClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// NewAnalyzerClientWithTimeout creates a new client with a custom timeout.
func NewAnalyzerClientWithTimeout(baseURL string, timeout time.Duration) *AnalyzerClient {
	return &AnalyzerClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SnapshotResponse represents the JSON response from GET /api/v1/analyses/latest.
type SnapshotResponse struct {
	ID          string    `json:"id"`
	Target      string    `json:"target"`
	Kind        string    `json:"kind"`
	GeneratedAt time.Time `json:"generated_at"`
	Summary     string    `json:"summary"`
	Received    int       `json:"received"`
	Retained    int       `json:"retained"`
}

// SnapshotResult contains the snapshot and metadata about staleness.
type SnapshotResult struct {
	Snapshot storage.Snapshot
	Stale    bool // true if X-Plog-Stale header was present
}

// GetSnapshot fetches the latest analysis snapshot for a target.
// Returns the snapshot and whether it's marked as stale by the analyzer.
//
// The context can be used to cancel the request or set deadlines.
// If the target has no snapshot, returns an error.
func (c *AnalyzerClient) GetSnapshot(ctx context.Context, target string) (*SnapshotResult, error) {
	if target == "" {
		return nil, fmt.Errorf("target cannot be empty")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/api/v1/analyses/latest"
	query := u.Query()
	query.Set("target", target)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("snapshot not found for target %q", target)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	stale := resp.Header.Get("X-Plog-Stale") == "true"

	var snapshotResp SnapshotResponse
	if err := json.NewDecoder(resp.Body).Decode(&snapshotResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	snapshot := storage.Snapshot{
		ID:          snapshotResp.ID,
		Target:      snapshotResp.Target,
		Kind:        storage.Kind(snapshotResp.Kind),
		GeneratedAt: snapshotResp.GeneratedAt,
		Summary:     snapshotResp.Summary,
		Received:    snapshotResp.Received,
		Retained:    snapshotResp.Retained,
	}

	return &SnapshotResult{
		Snapshot: snapshot,
		Stale:    stale,
	}, nil
}

// IsStale checks if a snapshot is older than the specified duration.
// This is a helper for consumers to determine staleness based on the
// snapshot's GeneratedAt timestamp.
func IsStale(snapshot storage.Snapshot, staleAfter time.Duration) bool {
	return time.Since(snapshot.GeneratedAt) > staleAfter
}
