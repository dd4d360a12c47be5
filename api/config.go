// Package api hosts the MCP tool server over streamable HTTP.
package api

import "net/http"

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string

	// MCPHandler serves the MCP endpoint
	MCPHandler http.Handler
}
