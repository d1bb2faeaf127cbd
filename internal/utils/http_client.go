package utils

import (
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly and adds
// concurrency-safe bearer token storage, so the token can be rotated while
// background workers keep issuing requests.
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().Get("https://example.com")
type HTTPClient struct {
	*resty.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient creates and returns a new HTTPClient instance
// with a default-configured underlying resty.Client.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}

// SetBearerToken stores token (whitespace-trimmed) for use in the
// Authorization header of subsequent authenticated requests. Safe for
// concurrent use.
func (c *HTTPClient) SetBearerToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

// BearerToken returns the bearer token currently held by the client, or an
// empty string if none has been set. Safe for concurrent use.
func (c *HTTPClient) BearerToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}
