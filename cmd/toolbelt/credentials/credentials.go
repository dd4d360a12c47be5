// Package credentialscmder provides the credentials command for inspecting
// how each integration's credential resolves.
package credentialscmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/toolbelt/pkg/cliui"
	"github.com/papercomputeco/toolbelt/pkg/credentials"
	"github.com/papercomputeco/toolbelt/pkg/utils"
)

const credentialsLongDesc string = `Inspect integration credentials.

Credentials resolve in order from the credential store (toolbelt auth),
the integration's environment variable and, for Google Docs, the
GOOGLE_SERVICE_ACCOUNT_JSON service account blob.

Use subcommands to inspect credentials:
  toolbelt credentials list                 Show where each credential resolves from
  toolbelt credentials check [integration]  Verify tokens against each API
  toolbelt credentials info <integration>   Show setup instructions`

const credentialsShortDesc string = "Inspect integration credentials"

func NewCredentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "credentials",
		Aliases: []string{"creds"},
		Short:   credentialsShortDesc,
		Long:    credentialsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newInfoCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show where each credential resolves from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runList(cmd.Context(), cmd.OutOrStdout(), configDir)
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [integration]",
		Short: "Verify tokens against each API's health check endpoint",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runCheck(cmd.Context(), cmd.OutOrStdout(), configDir, args)
		},
		ValidArgsFunction: completeIntegration,
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <integration>",
		Short: "Show setup instructions for an integration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), args[0])
		},
		ValidArgsFunction: completeIntegration,
	}
}

func runList(ctx context.Context, w io.Writer, configDir string) error {
	resolver, err := newResolver(configDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n  %s\n\n", cliui.HeaderStyle.Render("Integration credentials"))

	rows := [][]string{{"", cliui.KeyStyle.Render("INTEGRATION"), cliui.KeyStyle.Render("SOURCE"), cliui.KeyStyle.Render("TOKEN"), cliui.KeyStyle.Render("TOOLS")}}
	for _, spec := range credentials.Specs() {
		res, err := resolver.Resolve(ctx, spec.Name)

		mark := cliui.SuccessMark
		source := string(res.Source)
		token := cliui.DimStyle.Render(utils.Mask(res.Token))
		switch {
		case err != nil:
			mark = cliui.FailMark
			source = "error"
			token = cliui.WarnStyle.Render(utils.Truncate(err.Error(), 60))
		case !res.Found():
			mark = cliui.FailMark
			token = cliui.DimStyle.Render("set " + spec.EnvVar)
			if res.Problem != "" {
				token = cliui.WarnStyle.Render(utils.Truncate(res.Problem, 60))
			}
		}

		rows = append(rows, []string{mark, cliui.NameStyle.Render(spec.Name), source, token, fmt.Sprint(len(spec.Tools))})
	}
	cliui.Table(w, rows)
	fmt.Fprintln(w)

	return nil
}

func runCheck(ctx context.Context, w io.Writer, configDir string, args []string) error {
	specs := credentials.Specs()
	if len(args) == 1 {
		spec, ok := credentials.Lookup(strings.ToLower(args[0]))
		if !ok {
			return unsupported(args[0])
		}
		specs = []credentials.Spec{spec}
	}

	resolver, err := newResolver(configDir)
	if err != nil {
		return err
	}

	fmt.Fprintln(w)

	failed := 0
	for _, spec := range specs {
		res, err := resolver.Resolve(ctx, spec.Name)
		if err != nil {
			failed++
			fmt.Fprintf(w, "  %s %s %s\n", cliui.FailMark, spec.Display, cliui.WarnStyle.Render(err.Error()))
			continue
		}
		if !res.Found() {
			failed++
			fmt.Fprintf(w, "  %s %s %s\n", cliui.FailMark, spec.Display, cliui.DimStyle.Render("not configured"))
			continue
		}

		var health credentials.Health
		msg := fmt.Sprintf("%s %s", spec.Display, cliui.DimStyle.Render("via "+string(res.Source)))
		err = cliui.Step(w, msg, func() error {
			health = credentials.Check(ctx, spec, res.Token, nil)
			if !health.OK {
				return errors.New(health.Message)
			}
			return nil
		})
		if err != nil {
			failed++
			fmt.Fprintf(w, "    %s\n", cliui.WarnStyle.Render(health.Message))
		}
	}

	fmt.Fprintln(w)

	if failed > 0 {
		return fmt.Errorf("%d of %d integrations failed the credential check", failed, len(specs))
	}
	return nil
}

func runInfo(w io.Writer, name string) error {
	spec, ok := credentials.Lookup(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return unsupported(name)
	}

	fmt.Fprintf(w, "\n  %s  %s\n\n", cliui.HeaderStyle.Render(spec.Display), cliui.DimStyle.Render(spec.Description))

	rows := [][]string{
		{cliui.KeyStyle.Render("Environment"), cliui.ValueStyle.Render(spec.EnvVar)},
		{cliui.KeyStyle.Render("Store"), cliui.ValueStyle.Render("toolbelt auth " + spec.Name)},
		{cliui.KeyStyle.Render("Credentials"), cliui.ValueStyle.Render(spec.HelpURL)},
		{cliui.KeyStyle.Render("Health check"), cliui.ValueStyle.Render(spec.HealthCheckMethod + " " + spec.HealthCheckEndpoint)},
	}
	if spec.ServiceAccountEnvVar != "" {
		rows = append(rows, []string{cliui.KeyStyle.Render("Service account"), cliui.ValueStyle.Render(spec.ServiceAccountEnvVar)})
	}
	cliui.Table(w, rows)

	rendered, err := cliui.RenderMarkdown(spec.APIKeyInstructions)
	if err != nil {
		rendered = spec.APIKeyInstructions + "\n"
	}
	fmt.Fprint(w, rendered)

	return nil
}

func newResolver(configDir string) (*credentials.Resolver, error) {
	store, err := credentials.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}
	return credentials.NewResolver(credentials.WithStore(store)), nil
}

func unsupported(name string) error {
	return fmt.Errorf("unsupported integration: %q\n\nSupported integrations: %s",
		name, strings.Join(credentials.Names(), ", "))
}

func completeIntegration(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return credentials.Names(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
