// Package server holds the runtime plumbing of the vCenter MCP server.
//
// ServerContext carries the dependencies every tool handler needs: the
// read-only vCenter Inventory, a *slog.Logger, the server identity and the
// optional OpenTelemetry provider. It is built with functional options:
//
//	sc, err := server.NewServerContext(ctx,
//		server.WithInventory(inventory.NewService(client, cfg.Host)),
//		server.WithLogger(logger),
//		server.WithVersion(version),
//		server.WithInstrumentationProvider(provider),
//	)
//	if err != nil {
//		return err
//	}
//	defer sc.Shutdown()
//
// HTTPServer mounts an mcp-go transport (streamable-http or SSE) next to the
// health endpoints and wraps both in the middleware package. GET /health
// always answers {"status":"healthy","service":"vcenter-mcp","version":"1.0.0"}
// and never reaches out to vCenter; /healthz and /readyz serve as Kubernetes
// checks.
//
// MetricsServer exposes the Prometheus registry on its own listener so it
// can stay cluster-internal.
package server
