// Package imagecheck verifies that externally hosted cover images are
// still reachable, using bounded HEAD requests.
package imagecheck

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultProbeTimeout bounds a single probe end to end
const DefaultProbeTimeout = 5 * time.Second

// HeadProber checks image URLs with HTTP HEAD requests
type HeadProber struct {
	client *http.Client
}

// NewHeadProber creates a prober with the given per-probe timeout
func NewHeadProber(timeout time.Duration) *HeadProber {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HeadProber{
		client: &http.Client{Timeout: timeout},
	}
}

// Probe issues a HEAD request against the URL. Any transport failure or
// a response of 400 and above counts as an unusable image.
func (p *HeadProber) Probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("imagecheck: invalid image url %q: %w", url, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("imagecheck: probe failed for %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("imagecheck: image %q returned status %d", url, resp.StatusCode)
	}
	return nil
}
