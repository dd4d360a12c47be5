package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/papercomputeco/toolbelt/pkg/result"
)

// NewHTTPClient returns an *http.Client that attaches "Authorization: Bearer
// <token>" to every request. A nil base uses http.DefaultTransport.
func NewHTTPClient(token string, base http.RoundTripper) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: token,
				TokenType:   "Bearer",
			}),
			Base: base,
		},
	}
}

// TransportError maps a failed round trip to the uniform error shape.
func TransportError(err error) result.Result {
	if IsTimeout(err) {
		return result.Error("Request timed out")
	}
	return result.Errorf("Network error: %v", err)
}

// IsTimeout reports whether err is a deadline or a network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
