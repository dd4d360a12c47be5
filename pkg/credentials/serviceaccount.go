package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
)

// GoogleScopes are requested when exchanging a service account key.
var GoogleScopes = []string{docs.DocumentsScope, drive.DriveScope}

var (
	// ErrMalformedServiceAccount is returned for a blob that is not a JSON
	// object.
	ErrMalformedServiceAccount = errors.New("service account JSON is malformed")

	// ErrNoServiceAccountToken is returned for a blob that holds neither a
	// pre-exchanged access_token nor a service account private key.
	ErrNoServiceAccountToken = errors.New("service account JSON has no access_token or private_key")

	// ErrExchangeTimeout is returned when the token endpoint does not answer
	// within the exchange timeout.
	ErrExchangeTimeout = errors.New("service account token exchange timed out")
)

const serviceAccountType = "service_account"

// ServiceAccount is a parsed GOOGLE_SERVICE_ACCOUNT_JSON blob. It carries
// either a pre-exchanged AccessToken or a key that can be exchanged for one.
type ServiceAccount struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
	AccessToken string `json:"access_token"`

	raw []byte
}

// ParseServiceAccount decodes and validates a service account blob.
func ParseServiceAccount(data []byte) (*ServiceAccount, error) {
	sa := &ServiceAccount{}
	if err := json.Unmarshal(data, sa); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedServiceAccount, err)
	}

	if sa.AccessToken == "" && !sa.IsKey() {
		return nil, ErrNoServiceAccountToken
	}

	sa.raw = data
	return sa, nil
}

// IsKey reports whether the blob is a service account key.
func (sa *ServiceAccount) IsKey() bool {
	return sa.Type == serviceAccountType && sa.PrivateKey != ""
}

// Token returns the pre-exchanged access token, or exchanges the key for a
// token scoped to scopes through the JWT bearer flow.
func (sa *ServiceAccount) Token(ctx context.Context, scopes ...string) (string, error) {
	if sa.AccessToken != "" {
		return sa.AccessToken, nil
	}

	cfg, err := google.JWTConfigFromJSON(sa.raw, scopes...)
	if err != nil {
		return "", fmt.Errorf("loading service account key: %w", err)
	}

	tok, err := cfg.TokenSource(ctx).Token()
	if err != nil {
		return "", fmt.Errorf("exchanging service account key for %s: %w", sa.ClientEmail, err)
	}

	return tok.AccessToken, nil
}

// exchangeToken runs sa.Token with a deadline of timeout, sending the token
// request through transport (http.DefaultTransport when nil).
func exchangeToken(ctx context.Context, sa *ServiceAccount, transport http.RoundTripper, timeout time.Duration, scopes ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// The JWT flow posts without a request context, so the transport binds
	// each request to ctx.
	client := &http.Client{Transport: boundTransport{ctx: ctx, base: transport}}
	token, err := sa.Token(context.WithValue(ctx, oauth2.HTTPClient, client), scopes...)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("%w after %s", ErrExchangeTimeout, timeout)
	}
	return token, err
}

type boundTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t boundTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req.WithContext(t.ctx))
}
