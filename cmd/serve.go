package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/giantswarm/mcp-vcenter/internal/config"
	"github.com/giantswarm/mcp-vcenter/internal/instrumentation"
	"github.com/giantswarm/mcp-vcenter/internal/inventory"
	"github.com/giantswarm/mcp-vcenter/internal/logging"
	"github.com/giantswarm/mcp-vcenter/internal/server"
	inventorytools "github.com/giantswarm/mcp-vcenter/internal/tools/inventory"
	"github.com/giantswarm/mcp-vcenter/internal/vcenter"
)

// transportStdio serves MCP over standard input and output.
const transportStdio = "stdio"

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	var (
		configFile string
		config     ServeConfig
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the vCenter MCP server",
		Long: `Start the vCenter MCP server, exposing read-only inventory tools
(clusters, resource pools and virtual machines) over the Model Context Protocol.

vCenter credentials come from VCENTER_HOST, VCENTER_USERNAME and
VCENTER_PASSWORD, or from a bound vCenter service in VCAP_SERVICES.

Supports multiple transport types:
  - streamable-http: Streamable HTTP transport (default)
  - sse: Server-Sent Events over HTTP
  - stdio: Standard input/output

The HTTP listener defaults to $HOST:$PORT (0.0.0.0:8080) and also serves
GET /health, /healthz and /readyz.

Settings are taken from flags, then the optional TOML file given with
--config, then environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var file *FileConfig
			if configFile != "" {
				var err error
				file, err = ReadConfigFile(configFile)
				if err != nil {
					return err
				}
			}
			resolved := resolveServeConfig(cmd.Flags(), config, file, os.Getenv)
			return runServe(cmd.Context(), resolved)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Path to a TOML configuration file")
	cmd.Flags().BoolVar(&config.DebugMode, "debug", false, "Enable debug logging (default: false)")
	cmd.Flags().StringVar(&config.LogFormat, "log-format", "text", "Log format: text or json")

	cmd.Flags().StringVar(&config.Transport, "transport", server.TransportStreamableHTTP, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&config.HTTPAddr, "http-addr", defaultHost+":"+defaultPort, "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&config.SSEEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.MessageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.HTTPEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")
	cmd.Flags().BoolVar(&config.DisableStreaming, "disable-streaming", false, "Disable streaming for streamable-http transport")
	cmd.Flags().BoolVar(&config.EnableHSTS, "enable-hsts", false, "Send Strict-Transport-Security on plain HTTP (behind a TLS-terminating router)")
	cmd.Flags().StringVar(&config.AllowedOrigins, "allowed-origins", "", "Comma-separated list of CORS origins allowed to call the MCP endpoint")

	cmd.Flags().BoolVar(&config.Metrics.Enabled, "metrics-enabled", false, "Serve Prometheus metrics on a dedicated listener (requires INSTRUMENTATION_ENABLED=true)")
	cmd.Flags().StringVar(&config.Metrics.Addr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address")

	return cmd
}

func runServe(parent context.Context, cfg ServeConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	// stdout carries the protocol in stdio mode.
	var logOut io.Writer = os.Stdout
	if cfg.Transport == transportStdio {
		logOut = os.Stderr
	}
	logger := logging.Setup(logOut, cfg.DebugMode, cfg.LogFormat)

	connCfg, err := config.Resolve(os.Getenv)
	if err != nil {
		return fmt.Errorf("failed to resolve vCenter configuration: %w", err)
	}
	logger.Info("vCenter configuration resolved",
		logging.Host(connCfg.Host),
		slog.Bool("verify_ssl", connCfg.VerifySSL),
		slog.Duration("timeout", connCfg.Timeout),
	)

	if parent == nil {
		parent = context.Background()
	}
	shutdownCtx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error("error during instrumentation shutdown", logging.Err(shutdownErr))
		}
	}()

	if instrumentationProvider.Enabled() {
		logger.Info("OpenTelemetry instrumentation enabled",
			"metrics_exporter", instrumentationConfig.MetricsExporter,
			"tracing_exporter", instrumentationConfig.TracingExporter)
	}

	client := vcenter.NewRESTClient(connCfg,
		vcenter.WithMetrics(instrumentationProvider.Metrics()),
		vcenter.WithLogger(logger),
	)
	service := inventory.NewService(client, connCfg.Host, inventory.WithLogger(logger))

	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithInventory(service),
		server.WithLogger(logger),
		server.WithVersion(rootCmd.Version),
		server.WithLogLevel(logLevel(cfg.DebugMode)),
		server.WithInstrumentationProvider(instrumentationProvider),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("error during server context shutdown", logging.Err(err))
		}
	}()

	mcpSrv := mcpserver.NewMCPServer(serverContext.Config().ServerName, serverContext.Config().Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	if err := inventorytools.RegisterTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register inventory tools: %w", err)
	}

	switch cfg.Transport {
	case transportStdio:
		return runStdioServer(shutdownCtx, mcpSrv)
	default:
		return runHTTPServer(shutdownCtx, mcpSrv, serverContext, cfg)
	}
}

func logLevel(debug bool) string {
	if debug {
		return "debug"
	}
	return "info"
}
