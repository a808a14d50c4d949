// Package metadata resolves pod names to service metadata via the platform
// metadata endpoint. Lookups are cached with a TTL so the resource analysis
// loop does not hammer the endpoint on every tick.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// PodInfo describes the service a pod belongs to.
type PodInfo struct {
	PodName     string `json:"pod_name"`
	ServiceType string `json:"service_type"`
}

// Client fetches pod metadata over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a metadata client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Lookup fetches metadata for one pod by name.
func (c *Client) Lookup(ctx context.Context, podName string) (PodInfo, error) {
	u := fmt.Sprintf("%s/api/v1/pods/%s", c.baseURL, url.PathEscape(podName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return PodInfo{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PodInfo{}, fmt.Errorf("fetching pod metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PodInfo{}, fmt.Errorf("metadata endpoint returned status %d", resp.StatusCode)
	}

	var info PodInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return PodInfo{}, fmt.Errorf("decoding pod metadata: %w", err)
	}
	if info.PodName == "" {
		info.PodName = podName
	}

	return info, nil
}
