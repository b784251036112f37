package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/mcp-vcenter/internal/instrumentation"
	"github.com/giantswarm/mcp-vcenter/internal/logging"
	"github.com/giantswarm/mcp-vcenter/internal/server"
)

// runHTTPServer serves MCP over streamable-http or SSE until ctx is done,
// alongside the optional metrics server.
func runHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, config ServeConfig) error {
	logger := sc.Logger()

	httpServer, err := server.NewHTTPServer(mcpSrv, sc, config.httpConfig())
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	metricsServer, err := newMetricsServer(config.Metrics, sc.InstrumentationProvider(), logger)
	if err != nil {
		return err
	}

	logger.Info("HTTP server starting",
		"addr", httpServer.Addr(),
		"transport", config.Transport,
		"mcp_endpoints", httpServer.Endpoints(),
		"health_endpoints", []string{"/health", "/healthz", "/readyz"})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.Start(); err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server stopped with error: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received, stopping HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		// Shutdown metrics server first
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("error shutting down metrics server", logging.Err(err))
			}
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("HTTP server gracefully stopped")
	return nil
}

// newMetricsServer builds the dedicated metrics server, or returns nil when
// it is disabled or there is nothing to export.
func newMetricsServer(config MetricsServeConfig, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	if !config.Enabled {
		return nil, nil
	}
	if provider == nil || !provider.Enabled() {
		logger.Warn("metrics server requested but instrumentation is disabled; set INSTRUMENTATION_ENABLED=true")
		return nil, nil
	}

	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    config.Addr,
		Enabled:                 config.Enabled,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	logger.Info("metrics server starting", "addr", metricsServer.Addr(), "endpoint", metricsServer.Path())
	return metricsServer, nil
}
