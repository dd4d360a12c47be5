// Package servecmder provides the serve command for running the MCP tool
// server.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/toolbelt/api"
	toolmcp "github.com/papercomputeco/toolbelt/api/mcp"
	"github.com/papercomputeco/toolbelt/pkg/config"
	"github.com/papercomputeco/toolbelt/pkg/credentials"
	"github.com/papercomputeco/toolbelt/pkg/httpapi"
	"github.com/papercomputeco/toolbelt/pkg/logger"
)

type serveCommander struct {
	transport    string
	listen       string
	integrations []string
	timeout      time.Duration
	bulkTimeout  time.Duration
	twitterURL   string
	docsURL      string
	driveURL     string
	hubspotURL   string
	logFile      string

	debug     bool
	configDir string
	viper     *viper.Viper
	logger    *slog.Logger
}

const serveLongDesc string = `Run the toolbelt MCP tool server.

Tools for every enabled integration (twitter, google_docs, hubspot) are
exposed over MCP. Credentials are resolved per tool call, in order, from
the credential store (toolbelt auth), the integration's environment
variable and, for Google Docs, GOOGLE_SERVICE_ACCOUNT_JSON.

Transports:
  stdio   MCP over stdin/stdout (default). Logs go to stderr.
  http    Streamable HTTP at /mcp, with a /ping health check.

Examples:
  toolbelt serve
  toolbelt serve --transport http --listen :8090
  toolbelt serve --integrations hubspot,google_docs
  toolbelt serve --log-file toolbelt.log`

const serveShortDesc string = "Run the MCP tool server"

var serveFlags = []string{
	config.FlagTransport,
	config.FlagListen,
	config.FlagIntegrations,
	config.FlagTimeout,
	config.FlagBulkTimeout,
	config.FlagTwitterURL,
	config.FlagDocsURL,
	config.FlagDriveURL,
	config.FlagHubSpotURL,
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags)
			cmder.viper = v

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagTransport, &cmder.transport)
	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringSliceFlag(cmd, config.Flags, config.FlagIntegrations, &cmder.integrations)
	config.AddDurationFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)
	config.AddDurationFlag(cmd, config.Flags, config.FlagBulkTimeout, &cmder.bulkTimeout)
	config.AddStringFlag(cmd, config.Flags, config.FlagTwitterURL, &cmder.twitterURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagDocsURL, &cmder.docsURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagDriveURL, &cmder.driveURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagHubSpotURL, &cmder.hubspotURL)
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	closeLog, err := c.setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	transport := c.viper.GetString("server.transport")
	if transport != config.TransportStdio && transport != config.TransportHTTP {
		return fmt.Errorf("invalid transport %q: must be %s or %s", transport, config.TransportStdio, config.TransportHTTP)
	}

	store, err := credentials.NewManager(c.configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	resolver := credentials.NewResolver(
		credentials.WithStore(store),
		credentials.WithLogger(c.logger),
		credentials.WithExchangeTimeout(c.viper.GetDuration("http.timeout")),
	)

	mcpServer, err := toolmcp.NewServer(toolmcp.Config{
		Resolver:       resolver,
		Integrations:   config.EnabledIntegrations(c.viper),
		TwitterBaseURL: c.viper.GetString("twitter.base_url"),
		DocsBaseURL:    c.viper.GetString("google_docs.docs_base_url"),
		DriveBaseURL:   c.viper.GetString("google_docs.drive_base_url"),
		HubSpotBaseURL: c.viper.GetString("hubspot.base_url"),
		Timeouts: httpapi.Timeouts{
			Default: c.viper.GetDuration("http.timeout"),
			Bulk:    c.viper.GetDuration("http.bulk_timeout"),
		},
		Logger: c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if transport == config.TransportStdio {
		c.logger.Info("serving MCP over stdio", "tools", len(mcpServer.Tools()))
		if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			return fmt.Errorf("MCP stdio server error: %w", err)
		}
		return nil
	}

	return c.serveHTTP(ctx, mcpServer)
}

func (c *serveCommander) serveHTTP(ctx context.Context, mcpServer *toolmcp.Server) error {
	apiServer, err := api.NewServer(api.Config{
		ListenAddr: c.viper.GetString("server.listen"),
		MCPHandler: mcpServer.Handler(),
	}, c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	// Channel to capture errors from the listener goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		c.logger.Info("received signal, shutting down")
		return apiServer.Shutdown()
	}
}

// setupLogger logs to stderr, since stdout carries the stdio protocol, and
// additionally to a JSON log file when --log-file is set.
func (c *serveCommander) setupLogger() (func(), error) {
	stderr := logger.New(
		logger.WithDebug(c.debug),
		logger.WithFormat(logger.FormatPretty),
		logger.WithWriter(os.Stderr),
	)

	if c.logFile == "" {
		c.logger = stderr
		return func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	c.logger = logger.Multi(stderr, logger.New(
		logger.WithDebug(c.debug),
		logger.WithFormat(logger.FormatJSON),
		logger.WithSource(c.debug),
		logger.WithWriter(f),
	))

	return func() { _ = f.Close() }, nil
}
