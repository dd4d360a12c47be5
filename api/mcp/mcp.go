// Package mcp provides the MCP (Model Context Protocol) tool server exposing
// the Twitter, Google Docs and HubSpot integrations.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/toolbelt/pkg/credentials"
	"github.com/papercomputeco/toolbelt/pkg/httpapi"
	"github.com/papercomputeco/toolbelt/pkg/utils"
)

// ServerName is the implementation name reported to MCP clients.
const ServerName = "toolbelt"

type Config struct {
	// Resolver finds the credential for each tool call
	Resolver *credentials.Resolver

	// Integrations limits registration to these integrations. Empty registers
	// every known integration.
	Integrations []string

	// Upstream API roots. Empty values use each adapter's default.
	TwitterBaseURL string
	DocsBaseURL    string
	DriveBaseURL   string
	HubSpotBaseURL string

	// Timeouts bounds upstream requests
	Timeouts httpapi.Timeouts

	// Transport is the base round tripper for upstream requests. Nil uses
	// http.DefaultTransport.
	Transport http.RoundTripper

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
	tools     []string
}

// NewServer creates a new MCP server with the tools of every enabled
// integration registered.
func NewServer(c Config) (*Server, error) {
	if c.Resolver == nil {
		return nil, errors.New("resolver is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	enabled := c.Integrations
	if len(enabled) == 0 {
		enabled = credentials.Names()
	}
	for _, name := range enabled {
		if !credentials.IsSupported(name) {
			return nil, fmt.Errorf("%w: %s", credentials.ErrUnknownIntegration, name)
		}
	}

	s := &Server{
		config: c,
	}

	s.mcpServer = mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	registrars := map[string]func() error{
		credentials.Twitter:    s.registerTwitter,
		credentials.GoogleDocs: s.registerGoogleDocs,
		credentials.HubSpot:    s.registerHubSpot,
	}
	for _, name := range credentials.Names() {
		if !slices.Contains(enabled, name) {
			continue
		}
		if err := registrars[name](); err != nil {
			return nil, fmt.Errorf("registering %s tools: %w", name, err)
		}
	}

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return s.mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	c.Logger.Debug("registered MCP tools",
		"count", len(s.tools),
		"integrations", enabled,
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves a single session over t until the client disconnects or ctx is
// cancelled.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.mcpServer.Run(ctx, t)
}

// Connect starts a session over t without blocking.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

// Tools returns the registered tool names in registration order.
func (s *Server) Tools() []string {
	return slices.Clone(s.tools)
}
