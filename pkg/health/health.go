// Package health checks whether a deployed document-processing service is
// answering requests.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// DefaultPath is the GROBID liveness endpoint served by every preset image.
const DefaultPath = "/api/isalive"

// DefaultTimeout bounds a single health request. It must stay shorter than
// the deployer's poll interval so a hanging request cannot silently eat
// the deadline.
const DefaultTimeout = 5 * time.Second

// Config configures the checker.
type Config struct {
	// Path is appended to the instance API URL. Defaults to DefaultPath.
	Path string

	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Checker issues liveness requests against an instance's API URL.
type Checker struct {
	client *retryablehttp.Client
	path   string
}

// New creates a checker. Client-level retries are disabled: the deployer's
// poll loop owns retrying, one attempt per tick.
func New(cfg Config) *Checker {
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil
	client.HTTPClient.Timeout = cfg.Timeout

	return &Checker{client: client, path: cfg.Path}
}

// Check issues one GET against apiURL's liveness path. Any 2xx response
// means ready; everything else, connection errors included, means not yet.
func (c *Checker) Check(ctx context.Context, apiURL string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, apiURL+c.path, nil)
	if err != nil {
		return fmt.Errorf("building health request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("health check: service returned status %d", resp.StatusCode)
	}
	return nil
}
