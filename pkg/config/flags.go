package config

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands.
type Flag struct {
	// Name is the long flag name (e.g. "listen").
	Name string

	// Shorthand is the one-letter short flag (e.g. "l"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "server.listen").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddStringSliceFlag,
// AddDurationFlag and BindRegisteredFlags to avoid typos or drift from one
// command to another.
const (
	FlagTransport    = "transport"
	FlagListen       = "listen"
	FlagIntegrations = "integrations"
	FlagTimeout      = "timeout"
	FlagBulkTimeout  = "bulk-timeout"
	FlagTwitterURL   = "twitter-base-url"
	FlagDocsURL      = "docs-base-url"
	FlagDriveURL     = "drive-base-url"
	FlagHubSpotURL   = "hubspot-base-url"
)

// Flags is the default registry used by the toolbelt commands.
var Flags = FlagSet{
	FlagTransport:    {Name: "transport", Shorthand: "t", ViperKey: "server.transport", Description: "MCP transport: stdio or http"},
	FlagListen:       {Name: "listen", Shorthand: "l", ViperKey: "server.listen", Description: "Address for the HTTP transport to listen on"},
	FlagIntegrations: {Name: "integrations", Shorthand: "i", ViperKey: "integrations.enabled", Description: "Integrations whose tools are registered"},
	FlagTimeout:      {Name: "timeout", ViperKey: "http.timeout", Description: "Timeout for simple upstream calls"},
	FlagBulkTimeout:  {Name: "bulk-timeout", ViperKey: "http.bulk_timeout", Description: "Timeout for batch updates and exports"},
	FlagTwitterURL:   {Name: "twitter-base-url", ViperKey: "twitter.base_url", Description: "Twitter API base URL"},
	FlagDocsURL:      {Name: "docs-base-url", ViperKey: "google_docs.docs_base_url", Description: "Google Docs API base URL"},
	FlagDriveURL:     {Name: "drive-base-url", ViperKey: "google_docs.drive_base_url", Description: "Google Drive API base URL"},
	FlagHubSpotURL:   {Name: "hubspot-base-url", ViperKey: "hubspot.base_url", Description: "HubSpot API base URL"},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddStringSliceFlag registers a string slice flag on cmd from the given FlagSet.
func AddStringSliceFlag(cmd *cobra.Command, fs FlagSet, key string, target *[]string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetStringSlice(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringSliceVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringSliceVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddDurationFlag registers a duration flag on cmd from the given FlagSet.
func AddDurationFlag(cmd *cobra.Command, fs FlagSet, key string, target *time.Duration) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetDuration(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().DurationVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().DurationVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaults returns a viper holding only the values from NewDefaultConfig.
func defaults() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
}
