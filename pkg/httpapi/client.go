// Package httpapi is the shared core of the third-party API adapters: a
// bearer-authenticated JSON client with fixed per-call timeouts and a common
// translation of HTTP status codes into uniform results.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/papercomputeco/toolbelt/pkg/result"
)

const (
	// DefaultTimeout bounds simple calls.
	DefaultTimeout = 30 * time.Second

	// BulkTimeout bounds batch updates and exports.
	BulkTimeout = 60 * time.Second
)

// Timeouts holds the two per-call deadlines. Zero values fall back to
// DefaultTimeout and BulkTimeout.
type Timeouts struct {
	Default time.Duration
	Bulk    time.Duration
}

// DefaultFor returns the simple-call timeout.
func (t Timeouts) DefaultFor() time.Duration {
	if t.Default <= 0 {
		return DefaultTimeout
	}
	return t.Default
}

// BulkFor returns the batch/export timeout.
func (t Timeouts) BulkFor() time.Duration {
	if t.Bulk <= 0 {
		return BulkTimeout
	}
	return t.Bulk
}

// Request describes one call against a Client's base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON encoded when non-nil.
	Body any

	// Bulk selects the longer timeout.
	Bulk bool
}

// Client issues stateless JSON calls against a fixed base URL. It owns
// exactly one secret, carried by its HTTP client's transport.
type Client struct {
	baseURL  string
	http     *http.Client
	messages StatusMessages
	timeouts Timeouts
}

// NewClient creates a Client for baseURL authenticated with token.
func NewClient(baseURL, token string, messages StatusMessages, timeouts Timeouts, base http.RoundTripper) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     NewHTTPClient(token, base),
		messages: messages,
		timeouts: timeouts,
	}
}

// Do sends req and returns the translated response. It never returns a Go
// error: transport failures and upstream errors are both folded into the
// uniform error shape.
func (c *Client) Do(ctx context.Context, req Request) result.Result {
	timeout := c.timeouts.DefaultFor()
	if req.Bulk {
		timeout = c.timeouts.BulkFor()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := c.baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return result.Errorf("Invalid request body: %v", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return result.Errorf("Invalid request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return TransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return TransportError(err)
	}

	return c.messages.Translate(resp.StatusCode, resp.Header, respBody)
}
