// Package configcmder provides the config command for managing persistent
// toolbelt configuration stored in the .toolbelt/ directory.
package configcmder

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/toolbelt/pkg/cliui"
	"github.com/papercomputeco/toolbelt/pkg/config"
)

const configLongDesc string = `Manage persistent toolbelt configuration.

Configuration is stored as config.toml in the .toolbelt/ directory and
provides default values for serve flags. CLI flags and TOOLBELT_*
environment variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  server.transport, server.listen, integrations.enabled,
  twitter.base_url, google_docs.docs_base_url, google_docs.drive_base_url,
  hubspot.base_url, http.timeout, http.bulk_timeout

Use subcommands to get, set, or list configuration values:
  toolbelt config set <key> <value>    Set a configuration value
  toolbelt config get <key>            Get a configuration value
  toolbelt config list                 List all configuration values

Examples:
  toolbelt config set server.transport http
  toolbelt config set integrations.enabled hubspot,google_docs
  toolbelt config get http.timeout
  toolbelt config list`

const configShortDesc string = "Manage persistent toolbelt configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func completeKey(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// printTarget reports which config file is in use, or that defaults apply
// because it has not been written yet.
func printTarget(w io.Writer, cfger *config.Configer) {
	target := cfger.GetTarget()
	if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
		return
	}

	fmt.Fprintf(w, "\n  %s %s\n\n",
		cliui.KeyStyle.Render("Config file:"),
		cliui.DimStyle.Render(target),
	)
}
