package credentials

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/papercomputeco/toolbelt/pkg/httpapi"
)

// HealthTimeout bounds a single health check request.
const HealthTimeout = 10 * time.Second

// Health is the outcome of probing an integration's health check endpoint
// with a token.
type Health struct {
	Integration string
	OK          bool
	Status      int
	Message     string
	Elapsed     time.Duration
}

// Check calls spec's health check endpoint with token. A 2xx response, or a
// status listed in spec.HealthCheckAccepts, counts as healthy.
func Check(ctx context.Context, spec Spec, token string, transport http.RoundTripper) Health {
	h := Health{Integration: spec.Name}

	if spec.HealthCheckEndpoint == "" {
		h.Message = "no health check endpoint"
		return h
	}

	method := spec.HealthCheckMethod
	if method == "" {
		method = http.MethodGet
	}

	ctx, cancel := context.WithTimeout(ctx, HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, spec.HealthCheckEndpoint, nil)
	if err != nil {
		h.Message = fmt.Sprintf("building request: %v", err)
		return h
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := httpapi.NewHTTPClient(token, transport).Do(req)
	h.Elapsed = time.Since(start)
	if err != nil {
		h.Message, _ = httpapi.TransportError(err).Err()
		return h
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	h.Status = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300,
		slices.Contains(spec.HealthCheckAccepts, resp.StatusCode):
		h.OK = true
		h.Message = "token accepted"
	case resp.StatusCode == http.StatusUnauthorized:
		h.Message = "invalid or expired token"
	case resp.StatusCode == http.StatusForbidden:
		h.Message = "token lacks required permissions"
	default:
		h.Message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, httpapi.ErrorDetail(body))
	}

	return h
}
