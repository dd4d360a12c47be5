package credentials_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/toolbelt/pkg/credentials"
	"github.com/papercomputeco/toolbelt/pkg/logger"
)

type fakeStore struct {
	values map[string]string
	err    error
}

type countingTransport struct {
	calls atomic.Int32
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.calls.Add(1)
	return http.DefaultTransport.RoundTrip(req)
}

func (s *fakeStore) IsAvailable(name string) bool {
	_, ok := s.values[name]
	return ok || s.err != nil
}

func (s *fakeStore) Get(name string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.values[name], nil
}

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

var _ = Describe("Resolver", func() {
	var (
		ctx context.Context
		env map[string]string
	)

	BeforeEach(func() {
		ctx = context.Background()
		env = map[string]string{}
	})

	resolve := func(name string, opts ...credentials.ResolverOption) credentials.Resolution {
		opts = append(opts, credentials.WithLookupEnv(envOf(env)))
		res, err := credentials.NewResolver(opts...).Resolve(ctx, name)
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	It("prefers the store even when the environment variable is set", func() {
		env["TWITTER_BEARER_TOKEN"] = "from-env"
		store := &fakeStore{values: map[string]string{"twitter": "from-store"}}

		res := resolve(credentials.Twitter, credentials.WithStore(store))
		Expect(res.Token).To(Equal("from-store"))
		Expect(res.Source).To(Equal(credentials.SourceStore))
	})

	It("falls back to the environment when the store has nothing", func() {
		env["HUBSPOT_ACCESS_TOKEN"] = "from-env"
		store := &fakeStore{values: map[string]string{}}

		res := resolve(credentials.HubSpot, credentials.WithStore(store))
		Expect(res.Token).To(Equal("from-env"))
		Expect(res.Source).To(Equal(credentials.SourceEnv))
	})

	It("reports absence without an error", func() {
		res := resolve(credentials.Twitter)
		Expect(res.Found()).To(BeFalse())
		Expect(res.Source).To(Equal(credentials.SourceNone))
		Expect(res.Problem).To(BeEmpty())
	})

	It("treats an empty environment variable as unset", func() {
		env["TWITTER_BEARER_TOKEN"] = ""
		Expect(resolve(credentials.Twitter).Found()).To(BeFalse())
	})

	It("propagates type mismatches from the store", func() {
		store := &fakeStore{err: &credentials.TypeMismatchError{Integration: "twitter", Got: 42}}

		_, err := credentials.NewResolver(credentials.WithStore(store)).Resolve(ctx, credentials.Twitter)
		var mismatch *credentials.TypeMismatchError
		Expect(errors.As(err, &mismatch)).To(BeTrue())
		Expect(mismatch.Integration).To(Equal("twitter"))
	})

	It("rejects unknown integrations", func() {
		_, err := credentials.NewResolver().Resolve(ctx, "friendster")
		Expect(err).To(MatchError(credentials.ErrUnknownIntegration))
	})

	Describe("service account fallback", func() {
		It("uses a pre-exchanged access token", func() {
			env[credentials.ServiceAccountEnvVar] = `{"access_token":"ya29.pre"}`

			res := resolve(credentials.GoogleDocs)
			Expect(res.Token).To(Equal("ya29.pre"))
			Expect(res.Source).To(Equal(credentials.SourceServiceAccount))
		})

		It("prefers the access token variable over the blob", func() {
			env["GOOGLE_DOCS_ACCESS_TOKEN"] = "direct"
			env[credentials.ServiceAccountEnvVar] = `{"access_token":"ya29.pre"}`

			Expect(resolve(credentials.GoogleDocs).Token).To(Equal("direct"))
		})

		It("resolves malformed JSON to absent and records the problem", func() {
			env[credentials.ServiceAccountEnvVar] = `{not json`

			var buf bytes.Buffer
			res := resolve(credentials.GoogleDocs,
				credentials.WithLogger(logger.New(logger.WithWriter(&buf), logger.WithFormat(logger.FormatJSON))))

			Expect(res.Found()).To(BeFalse())
			Expect(res.Problem).To(ContainSubstring(credentials.ServiceAccountEnvVar))
			Expect(res.Problem).To(ContainSubstring("malformed"))
			Expect(buf.String()).To(ContainSubstring(`"level":"WARN"`))
		})

		It("records a problem for blobs without a token or key", func() {
			env[credentials.ServiceAccountEnvVar] = `{"project_id":"demo"}`

			res := resolve(credentials.GoogleDocs)
			Expect(res.Found()).To(BeFalse())
			Expect(res.Problem).To(ContainSubstring("no access_token"))
		})

		It("exchanges a service account key", func() {
			tokenServer := newTokenServer("ya29.exchanged")
			DeferCleanup(tokenServer.Close)
			env[credentials.ServiceAccountEnvVar] = serviceAccountKey(tokenServer.URL)

			res := resolve(credentials.GoogleDocs)
			Expect(res.Token).To(Equal("ya29.exchanged"))
			Expect(res.Source).To(Equal(credentials.SourceServiceAccount))
		})

		It("sends the exchange through the configured transport", func() {
			tokenServer := newTokenServer("ya29.exchanged")
			DeferCleanup(tokenServer.Close)
			env[credentials.ServiceAccountEnvVar] = serviceAccountKey(tokenServer.URL)

			transport := &countingTransport{}
			res := resolve(credentials.GoogleDocs, credentials.WithTransport(transport))
			Expect(res.Token).To(Equal("ya29.exchanged"))
			Expect(transport.calls.Load()).To(Equal(int32(1)))
		})

		It("gives up on a token endpoint that does not answer", func() {
			release := make(chan struct{})
			slow := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				select {
				case <-release:
				case <-r.Context().Done():
				}
			}))
			DeferCleanup(slow.Close)
			DeferCleanup(func() { close(release) })
			env[credentials.ServiceAccountEnvVar] = serviceAccountKey(slow.URL)

			start := time.Now()
			res := resolve(credentials.GoogleDocs, credentials.WithExchangeTimeout(100*time.Millisecond))

			Expect(time.Since(start)).To(BeNumerically("<", 5*time.Second))
			Expect(res.Found()).To(BeFalse())
			Expect(res.Problem).To(ContainSubstring(credentials.ErrExchangeTimeout.Error()))
		})

		It("is not consulted for other integrations", func() {
			env[credentials.ServiceAccountEnvVar] = `{"access_token":"ya29.pre"}`
			Expect(resolve(credentials.Twitter).Found()).To(BeFalse())
		})
	})
})
