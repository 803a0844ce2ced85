// Package geoip resolves the public IP of the server's network as seen by an
// external lookup service. The result is used only as audit metadata on login
// attempts; callers must treat every failure as non-fatal.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	endpoint string
	http     *http.Client
}

func New(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// PublicIP asks the lookup service for the caller's public address. The
// ip-api.com response carries it in the "query" field.
func (c *Client) PublicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geoip lookup returned status %d", resp.StatusCode)
	}

	var result struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Query == "" {
		return "", fmt.Errorf("geoip lookup returned no address")
	}
	return result.Query, nil
}
