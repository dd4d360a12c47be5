// Package authcmder provides the auth command for storing integration
// credentials.
package authcmder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/toolbelt/pkg/cliui"
	"github.com/papercomputeco/toolbelt/pkg/credentials"
	"github.com/papercomputeco/toolbelt/pkg/utils"
)

const authLongDesc string = `Store access tokens for integrations.

Tokens are stored in credentials.toml in the .toolbelt/ directory. The
credential store is consulted before environment variables whenever a
tool is called.

Supported integrations: twitter, google_docs, hubspot

Examples:
  toolbelt auth hubspot              Prompt for a HubSpot access token
  toolbelt auth --list               List stored credentials
  toolbelt auth --remove twitter     Remove the stored Twitter token
  echo $TOKEN | toolbelt auth twitter  Pipe a token from stdin`

const authShortDesc string = "Store access tokens for integrations"

type authCommander struct {
	configDir string
	in        io.Reader
	out       io.Writer
}

func NewAuthCmd() *cobra.Command {
	var listFlag bool
	var removeFlag string

	cmder := &authCommander{}

	cmd := &cobra.Command{
		Use:   "auth [integration]",
		Short: authShortDesc,
		Long:  authLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.in = cmd.InOrStdin()
			cmder.out = cmd.OutOrStdout()

			switch {
			case listFlag:
				return cmder.runList()
			case removeFlag != "":
				return cmder.runRemove(removeFlag)
			default:
				if len(args) == 0 {
					return fmt.Errorf("integration argument required\n\nSupported integrations: %s",
						strings.Join(credentials.Names(), ", "))
				}
				return cmder.runAuth(args[0])
			}
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return credentials.Names(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVar(&listFlag, "list", false, "List stored credentials")
	cmd.Flags().StringVar(&removeFlag, "remove", "", "Remove stored credentials for an integration")

	return cmd
}

func (c *authCommander) runAuth(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))

	spec, ok := credentials.Lookup(name)
	if !ok {
		return fmt.Errorf("unsupported integration: %q\n\nSupported integrations: %s",
			name, strings.Join(credentials.Names(), ", "))
	}

	token, err := c.readToken(spec)
	if err != nil {
		return err
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token cannot be empty")
	}

	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	if err := mgr.SetToken(name, token); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\n  %s Stored %s credentials %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(spec.Display),
		cliui.DimStyle.Render("(takes precedence over "+spec.EnvVar+")"),
	)

	return nil
}

func (c *authCommander) runList() error {
	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	names, err := mgr.ListIntegrations()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Fprintf(c.out, "\n  %s No stored credentials.\n", cliui.DimStyle.Render("●"))
		fmt.Fprintf(c.out, "  Use 'toolbelt auth <integration>' to store credentials.\n")
		fmt.Fprintf(c.out, "  Supported integrations: %s\n\n", strings.Join(credentials.Names(), ", "))
		return nil
	}

	fmt.Fprintf(c.out, "\n  %s\n\n", cliui.HeaderStyle.Render("Stored credentials"))

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		token, err := mgr.Get(name)
		masked := utils.Mask(token)
		if err != nil {
			masked = cliui.WarnStyle.Render(err.Error())
		}
		rows = append(rows, []string{cliui.SuccessMark, cliui.NameStyle.Render(name), cliui.DimStyle.Render(masked)})
	}
	cliui.Table(c.out, rows)
	fmt.Fprintln(c.out)

	return nil
}

func (c *authCommander) runRemove(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))

	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	if err := mgr.RemoveToken(name); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\n  %s Removed %s credentials.\n\n", cliui.SuccessMark, cliui.NameStyle.Render(name))

	return nil
}

// readToken reads a token from the command input. Piped input supplies the
// first line; a terminal is prompted with hidden input.
func (c *authCommander) readToken(spec credentials.Spec) (string, error) {
	f, isFile := c.in.(*os.File)
	if isFile && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(c.out, "Enter access token for %s (%s): ", spec.Display, spec.EnvVar)

		tokenBytes, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.out) // newline after hidden input
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return string(tokenBytes), nil
	}

	scanner := bufio.NewScanner(c.in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return "", errors.New("no input received on stdin")
}
