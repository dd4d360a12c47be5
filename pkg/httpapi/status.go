package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/papercomputeco/toolbelt/pkg/result"
)

// StatusMessages is the per-integration wording of the shared HTTP status
// table. Every adapter translates upstream failures through one of these.
type StatusMessages struct {
	// Unauthorized is returned for 401 and must mention an invalid or
	// expired credential.
	Unauthorized string

	// Forbidden is returned for 403. Include the required scope when known.
	Forbidden string

	// NotFound is returned for 404.
	NotFound string

	// RateLimited is returned for 429.
	RateLimited string

	// RateLimitResetHeader names the response header holding the rate limit
	// reset timestamp. When set, the reset hint is appended to RateLimited.
	RateLimitResetHeader string

	// APIError formats every other failure. It receives the upstream status
	// code and the upstream message, in that order.
	APIError string
}

// Failure translates a non-2xx status into an error Result.
func (m StatusMessages) Failure(status int, header http.Header, detail string) result.Result {
	switch status {
	case http.StatusUnauthorized:
		return result.Error(m.Unauthorized)
	case http.StatusForbidden:
		return result.Error(m.Forbidden)
	case http.StatusNotFound:
		if m.NotFound != "" {
			return result.Error(m.NotFound)
		}
	case http.StatusTooManyRequests:
		if m.RateLimitResetHeader == "" {
			return result.Error(m.RateLimited)
		}
		reset := "unknown"
		if header != nil {
			if v := header.Get(m.RateLimitResetHeader); v != "" {
				reset = v
			}
		}
		return result.Errorf("%s Resets at timestamp: %s", m.RateLimited, reset)
	}

	return result.Errorf(m.APIError, status, detail)
}

// Translate turns a raw HTTP response into a uniform Result. 2xx responses
// with an empty body (typically 204) map to the generic success marker.
func (m StatusMessages) Translate(status int, header http.Header, body []byte) result.Result {
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return m.Failure(status, header, ErrorDetail(body))
	}

	if status == http.StatusNoContent || len(strings.TrimSpace(string(body))) == 0 {
		return result.Success()
	}

	r, err := result.FromJSON(body)
	if err != nil {
		return result.Errorf(m.APIError, status, fmt.Sprintf("unexpected response body: %v", err))
	}

	return r
}

// ErrorDetail extracts the most specific message from an upstream error body.
// It understands the common shapes used by the supported APIs:
// {"errors":[{"message":...}]}, {"error":{"message":...}}, {"error":"..."},
// {"message":...} and {"detail":...}. Anything else is returned as raw text.
func ErrorDetail(body []byte) string {
	text := strings.TrimSpace(string(body))

	var payload struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Detail  string          `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return text
	}

	if len(payload.Errors) > 0 && payload.Errors[0].Message != "" {
		return payload.Errors[0].Message
	}

	if len(payload.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
		var flat string
		if err := json.Unmarshal(payload.Error, &flat); err == nil && flat != "" {
			return flat
		}
	}

	if payload.Message != "" {
		return payload.Message
	}
	if payload.Detail != "" {
		return payload.Detail
	}

	return text
}
