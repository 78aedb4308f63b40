package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HubClient talks to the light hub's HTTP API. The hub owns all light and
// group state; every call fetches fresh. No retries: transport failures
// propagate to the caller.
type HubClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHubClient creates a new HubClient. baseURL includes the authorized-user
// path segment, e.g. http://bridge-host/api/<user>.
func NewHubClient(baseURL string) *HubClient {
	return &HubClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Lookup fetches a hub resource (e.g. "lights", "groups/1") and returns the
// hub's JSON verbatim.
func (c *HubClient) Lookup(ctx context.Context, path string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create hub request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call hub: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("hub returned error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read hub response: %w", err)
	}

	return json.RawMessage(body), nil
}

// SetState forwards a raw JSON state patch to lights/{id}/state and returns
// the hub's outcome-list body untouched.
func (c *HubClient) SetState(ctx context.Context, id string, payload []byte) ([]byte, error) {
	url := fmt.Sprintf("%s/lights/%s/state", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create hub command request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send command to hub: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read hub command response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hub command failed: status=%d, body=%s", resp.StatusCode, string(body))
	}

	return body, nil
}
