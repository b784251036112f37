// Package instrumentation provides OpenTelemetry instrumentation for the
// mcp-vcenter server.
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// vCenter REST Metrics:
//   - vcenter_requests_total: Counter of REST calls by operation and status
//   - vcenter_request_duration_seconds: Histogram of REST call durations
//
// With METRICS_DETAILED_LABELS=true the vCenter metrics also carry the HTTP
// status_code label.
//
// Tool Metrics:
//   - mcp_tool_invocations_total: Counter of tool calls by tool and status
//   - mcp_tool_duration_seconds: Histogram of tool call durations
//
// Cluster, resource pool and VM names never become metric labels. They are
// recorded on spans and in the audit log only.
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and for each
// vCenter REST call (vcenter.<operation>).
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_EXPORTER_OTLP_INSECURE: Use plain HTTP for OTLP export
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: mcp-vcenter)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordVCenterRequest(ctx, instrumentation.OperationListVMs,
//		instrumentation.StatusSuccess, 200, time.Since(start))
package instrumentation
