package wikidata

import (
	"net/http"
	"sync"
	"time"
)

// HTTPClient matches the Do method of *http.Client so tests can inject
// mock transports.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RateLimitedHTTPClient enforces a minimum interval between requests, the
// polite default for a shared public API.
type RateLimitedHTTPClient struct {
	underlying  HTTPClient
	interval    time.Duration
	mu          sync.Mutex
	lastRequest time.Time
}

// NewRateLimitedHTTPClient wraps underlying with the given minimum interval
// between requests. A non-positive interval disables the limiter.
func NewRateLimitedHTTPClient(underlying HTTPClient, interval time.Duration) *RateLimitedHTTPClient {
	return &RateLimitedHTTPClient{underlying: underlying, interval: interval}
}

// Do waits out the remaining interval since the previous request, then
// forwards to the underlying client.
func (c *RateLimitedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if c.interval > 0 {
		c.mu.Lock()
		if !c.lastRequest.IsZero() {
			if wait := c.interval - time.Since(c.lastRequest); wait > 0 {
				c.mu.Unlock()
				time.Sleep(wait)
				c.mu.Lock()
			}
		}
		c.lastRequest = time.Now()
		c.mu.Unlock()
	}
	return c.underlying.Do(req)
}
