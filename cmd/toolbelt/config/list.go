package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/toolbelt/pkg/cliui"
	"github.com/papercomputeco/toolbelt/pkg/config"
)

const listLongDesc string = `List all configuration values.

Displays every configuration key and its current value, with defaults
filled in for keys the config.toml file does not set.

Examples:
  toolbelt config list`

const listShortDesc string = "List all configuration values"

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runList(cmd.OutOrStdout(), configDir)
		},
	}
}

func runList(w io.Writer, configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	printTarget(w, cfger)

	keys := config.ValidConfigKeys()
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}

		rendered := cliui.ValueStyle.Render(value)
		if value == "" {
			rendered = cliui.DimStyle.Render("<not set>")
		}
		rows = append(rows, []string{cliui.KeyStyle.Render(key), rendered})
	}
	cliui.Table(w, rows)
	fmt.Fprintln(w)

	return nil
}
