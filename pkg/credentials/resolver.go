package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/papercomputeco/toolbelt/pkg/httpapi"
)

// ErrUnknownIntegration is returned for names with no Spec.
var ErrUnknownIntegration = errors.New("unknown integration")

// Source records where a credential was found.
type Source string

const (
	SourceNone           Source = "none"
	SourceStore          Source = "store"
	SourceEnv            Source = "env"
	SourceServiceAccount Source = "service_account"
)

// Resolution is the outcome of resolving one integration's credential.
type Resolution struct {
	Token  string
	Source Source

	// Problem explains why a configured fallback could not be used.
	Problem string
}

// Found reports whether a token was resolved.
func (r Resolution) Found() bool {
	return r.Token != ""
}

// Resolver finds the secret for an integration. The first hit wins:
//  1. the Store, when it reports the credential as available
//  2. the integration's environment variable
//  3. the service account JSON blob, for integrations that declare one
//
// Resolved tokens are not cached.
type Resolver struct {
	store     Store
	lookupEnv func(string) (string, bool)
	logger    *slog.Logger

	transport       http.RoundTripper
	exchangeTimeout time.Duration
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithStore sets the credential store consulted first.
func WithStore(store Store) ResolverOption {
	return func(r *Resolver) {
		r.store = store
	}
}

// WithLookupEnv overrides environment lookups. Defaults to os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) ResolverOption {
	return func(r *Resolver) {
		r.lookupEnv = fn
	}
}

// WithLogger sets the logger used to report unusable fallbacks.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithTransport sets the transport used for service account token
// exchanges.
func WithTransport(transport http.RoundTripper) ResolverOption {
	return func(r *Resolver) {
		r.transport = transport
	}
}

// WithExchangeTimeout bounds a service account token exchange. Defaults to
// httpapi.DefaultTimeout.
func WithExchangeTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) {
		if timeout > 0 {
			r.exchangeTimeout = timeout
		}
	}
}

// NewResolver returns a Resolver. Without a store only the environment is
// consulted.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		lookupEnv:       os.LookupEnv,
		logger:          slog.New(slog.DiscardHandler),
		exchangeTimeout: httpapi.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the credential for integration name. Absence is reported
// through Resolution.Found, not as an error. Errors are reserved for unknown
// integrations and store failures, including *TypeMismatchError.
func (r *Resolver) Resolve(ctx context.Context, name string) (Resolution, error) {
	spec, ok := Lookup(name)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %s", ErrUnknownIntegration, name)
	}

	if r.store != nil && r.store.IsAvailable(name) {
		token, err := r.store.Get(name)
		if err != nil {
			return Resolution{}, fmt.Errorf("reading %s from credential store: %w", name, err)
		}
		if token != "" {
			return Resolution{Token: token, Source: SourceStore}, nil
		}
	}

	if token, ok := r.lookupEnv(spec.EnvVar); ok && token != "" {
		return Resolution{Token: token, Source: SourceEnv}, nil
	}

	if spec.ServiceAccountEnvVar != "" {
		return r.fromServiceAccount(ctx, spec), nil
	}

	return Resolution{Source: SourceNone}, nil
}

func (r *Resolver) fromServiceAccount(ctx context.Context, spec Spec) Resolution {
	blob, ok := r.lookupEnv(spec.ServiceAccountEnvVar)
	if !ok || blob == "" {
		return Resolution{Source: SourceNone}
	}

	sa, err := ParseServiceAccount([]byte(blob))
	if err != nil {
		return r.problem(spec, fmt.Sprintf("%s: %v", spec.ServiceAccountEnvVar, err))
	}

	token, err := exchangeToken(ctx, sa, r.transport, r.exchangeTimeout, GoogleScopes...)
	if err != nil {
		return r.problem(spec, fmt.Sprintf("%s: %v", spec.ServiceAccountEnvVar, err))
	}

	return Resolution{Token: token, Source: SourceServiceAccount}
}

func (r *Resolver) problem(spec Spec, problem string) Resolution {
	r.logger.Warn("ignoring unusable credential fallback",
		"integration", spec.Name,
		"problem", problem,
	)
	return Resolution{Source: SourceNone, Problem: problem}
}
