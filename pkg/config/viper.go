package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/toolbelt/pkg/dotdir"
)

// EnvPrefix prefixes every environment variable read by InitViper.
const EnvPrefix = "TOOLBELT"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the TOOLBELT_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (TOOLBELT_SERVER_LISTEN, TOOLBELT_HTTP_TIMEOUT, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: TOOLBELT_SERVER_LISTEN, TOOLBELT_TWITTER_BASE_URL, etc.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Server
	v.SetDefault("server.transport", d.Server.Transport)
	v.SetDefault("server.listen", d.Server.Listen)

	// Integrations
	v.SetDefault("integrations.enabled", d.Integrations.Enabled)

	// Upstream APIs
	v.SetDefault("twitter.base_url", d.Twitter.BaseURL)
	v.SetDefault("google_docs.docs_base_url", d.GoogleDocs.DocsBaseURL)
	v.SetDefault("google_docs.drive_base_url", d.GoogleDocs.DriveBaseURL)
	v.SetDefault("hubspot.base_url", d.HubSpot.BaseURL)

	// HTTP
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.bulk_timeout", d.HTTP.BulkTimeout)
}

// EnabledIntegrations returns integrations.enabled, accepting both a TOML
// array and a comma-separated string (as set through the environment).
func EnabledIntegrations(v *viper.Viper) []string {
	var out []string
	for _, item := range v.GetStringSlice("integrations.enabled") {
		out = append(out, splitList(item)...)
	}
	return out
}
