// Package toolbeltcmder
package toolbeltcmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/toolbelt/cmd/toolbelt/auth"
	configcmder "github.com/papercomputeco/toolbelt/cmd/toolbelt/config"
	credentialscmder "github.com/papercomputeco/toolbelt/cmd/toolbelt/credentials"
	servecmder "github.com/papercomputeco/toolbelt/cmd/toolbelt/serve"
	versioncmder "github.com/papercomputeco/toolbelt/cmd/version"
)

const toolbeltLongDesc string = `Toolbelt exposes Twitter/X, Google Docs and HubSpot CRM as MCP tools.

Run the server using:
  toolbelt serve                       MCP over stdio
  toolbelt serve --transport http      MCP over streamable HTTP

Manage credentials using:
  toolbelt auth <integration>          Store an access token
  toolbelt credentials list            Show where each credential resolves from`

const toolbeltShortDesc string = "Toolbelt - MCP tools for SaaS APIs"

func NewToolbeltCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "toolbelt",
		Short:        toolbeltShortDesc,
		Long:         toolbeltLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .toolbelt/ directory location")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(credentialscmder.NewCredentialsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
