package config

import (
	"fmt"
	"strings"
	"time"
)

// Config represents the persistent toolbelt configuration stored as
// config.toml in the .toolbelt/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version      int                `toml:"version"`
	Server       ServerConfig       `toml:"server"`
	Integrations IntegrationsConfig `toml:"integrations"`
	Twitter      TwitterConfig      `toml:"twitter"`
	GoogleDocs   GoogleDocsConfig   `toml:"google_docs"`
	HubSpot      HubSpotConfig      `toml:"hubspot"`
	HTTP         HTTPConfig         `toml:"http"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	// Transport is "stdio" or "http".
	Transport string `toml:"transport,omitempty"`
	Listen    string `toml:"listen,omitempty"`
}

// IntegrationsConfig selects which integrations register tools.
type IntegrationsConfig struct {
	Enabled []string `toml:"enabled,omitempty"`
}

// TwitterConfig holds Twitter/X API settings.
type TwitterConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
}

// GoogleDocsConfig holds Google Docs and Drive API settings.
type GoogleDocsConfig struct {
	DocsBaseURL  string `toml:"docs_base_url,omitempty"`
	DriveBaseURL string `toml:"drive_base_url,omitempty"`
}

// HubSpotConfig holds HubSpot API settings.
type HubSpotConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
}

// HTTPConfig holds outbound request timeouts as duration strings ("30s").
type HTTPConfig struct {
	Timeout     string `toml:"timeout,omitempty"`
	BulkTimeout string `toml:"bulk_timeout,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.transport": {
		get: func(c *Config) string { return c.Server.Transport },
		set: func(c *Config, v string) error {
			if v != TransportStdio && v != TransportHTTP {
				return fmt.Errorf("invalid value for server.transport: %q (expected %s or %s)", v, TransportStdio, TransportHTTP)
			}
			c.Server.Transport = v
			return nil
		},
	},
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"integrations.enabled": {
		get: func(c *Config) string { return strings.Join(c.Integrations.Enabled, ",") },
		set: func(c *Config, v string) error {
			c.Integrations.Enabled = splitList(v)
			return nil
		},
	},
	"twitter.base_url": {
		get: func(c *Config) string { return c.Twitter.BaseURL },
		set: func(c *Config, v string) error { c.Twitter.BaseURL = v; return nil },
	},
	"google_docs.docs_base_url": {
		get: func(c *Config) string { return c.GoogleDocs.DocsBaseURL },
		set: func(c *Config, v string) error { c.GoogleDocs.DocsBaseURL = v; return nil },
	},
	"google_docs.drive_base_url": {
		get: func(c *Config) string { return c.GoogleDocs.DriveBaseURL },
		set: func(c *Config, v string) error { c.GoogleDocs.DriveBaseURL = v; return nil },
	},
	"hubspot.base_url": {
		get: func(c *Config) string { return c.HubSpot.BaseURL },
		set: func(c *Config, v string) error { c.HubSpot.BaseURL = v; return nil },
	},
	"http.timeout": {
		get: func(c *Config) string { return c.HTTP.Timeout },
		set: func(c *Config, v string) error {
			if err := validateDuration(v); err != nil {
				return fmt.Errorf("invalid value for http.timeout: %w", err)
			}
			c.HTTP.Timeout = v
			return nil
		},
	},
	"http.bulk_timeout": {
		get: func(c *Config) string { return c.HTTP.BulkTimeout },
		set: func(c *Config, v string) error {
			if err := validateDuration(v); err != nil {
				return fmt.Errorf("invalid value for http.bulk_timeout: %w", err)
			}
			c.HTTP.BulkTimeout = v
			return nil
		},
	},
}

func validateDuration(v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %s", v)
	}
	return nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
