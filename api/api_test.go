package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/toolbelt/pkg/logger"
)

var _ = Describe("Server", func() {
	var (
		server *Server
		seen   []string
	)

	BeforeEach(func() {
		seen = nil
		mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			seen = append(seen, r.Method+" "+string(body))
			w.WriteHeader(http.StatusAccepted)
		})

		var err error
		server, err = NewServer(Config{ListenAddr: ":0", MCPHandler: mcpHandler}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewServer", func() {
		It("requires an MCP handler", func() {
			_, err := NewServer(Config{ListenAddr: ":0"}, logger.Nop())
			Expect(err).To(MatchError(ContainSubstring("MCP handler is required")))
		})

		It("requires a logger", func() {
			_, err := NewServer(Config{MCPHandler: http.NotFoundHandler()}, nil)
			Expect(err).To(MatchError(ContainSubstring("logger is required")))
		})
	})

	Describe("GET /ping", func() {
		It("returns pong", func() {
			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, _ := io.ReadAll(resp.Body)
			Expect(string(body)).To(Equal(`"pong"`))
		})
	})

	Describe("/mcp", func() {
		It("forwards requests to the MCP handler", func() {
			req := httptest.NewRequest(http.MethodPost, MCPPath, strings.NewReader(`{"jsonrpc":"2.0"}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusAccepted))
			Expect(seen).To(Equal([]string{`POST {"jsonrpc":"2.0"}`}))
		})

		It("forwards every method", func() {
			resp, err := server.app.Test(httptest.NewRequest(http.MethodDelete, MCPPath, nil))
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusAccepted))
			Expect(seen).To(Equal([]string{"DELETE "}))
		})
	})
})
