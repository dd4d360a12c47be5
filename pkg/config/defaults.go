package config

import (
	"github.com/papercomputeco/toolbelt/pkg/credentials"
	"github.com/papercomputeco/toolbelt/pkg/googledocs"
	"github.com/papercomputeco/toolbelt/pkg/hubspot"
	"github.com/papercomputeco/toolbelt/pkg/twitter"
)

// Server transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const (
	defaultTransport = TransportStdio
	defaultListen    = ":8090"

	defaultTimeout     = "30s"
	defaultBulkTimeout = "60s"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Transport: defaultTransport,
			Listen:    defaultListen,
		},
		Integrations: IntegrationsConfig{
			Enabled: credentials.Names(),
		},
		Twitter: TwitterConfig{
			BaseURL: twitter.BaseURL,
		},
		GoogleDocs: GoogleDocsConfig{
			DocsBaseURL:  googledocs.DocsBaseURL,
			DriveBaseURL: googledocs.DriveBaseURL,
		},
		HubSpot: HubSpotConfig{
			BaseURL: hubspot.BaseURL,
		},
		HTTP: HTTPConfig{
			Timeout:     defaultTimeout,
			BulkTimeout: defaultBulkTimeout,
		},
	}
}
