// Package tools provides shared utilities for MCP tool implementations.
package tools

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-vcenter/internal/instrumentation"
	"github.com/giantswarm/mcp-vcenter/internal/logging"
	"github.com/giantswarm/mcp-vcenter/internal/server"
)

// ToolHandler is the signature for MCP tool handler functions that take ServerContext.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)

// WrapWithAuditLogging wraps a tool handler with tracing, metrics and an
// audit log entry. The name arguments go to the span and the audit entry
// but never to metric labels.
func WrapWithAuditLogging(
	toolName string,
	handler ToolHandler,
	sc *server.ServerContext,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cluster := OptionalString(request, ArgClusterName)
		pool := OptionalString(request, ArgResourcePoolName)

		ctx, span := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().
				WithCluster(cluster).
				WithResourcePool(pool).
				Build()...,
		)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithInvocationID(uuid.NewString()).
			WithCluster(cluster).
			WithResourcePool(pool).
			WithSpanContext(ctx)

		logger := logging.WithTool(sc.Logger(), toolName)
		logger.Debug("tool invoked", slog.String("invocation_id", invocation.InvocationID))

		result, err := handler(ctx, request, sc)

		switch {
		case err != nil:
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			// MCP tool errors are returned in the result, not as Go errors.
			msg := resultText(result)
			invocation.Complete(false, nil)
			invocation.Error = msg
			instrumentation.SetSpanError(span, errors.New(msg))
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		logger.Debug("tool completed",
			slog.String("invocation_id", invocation.InvocationID),
			logging.Status(invocation.Status()),
			slog.Duration(logging.KeyDuration, invocation.Duration),
		)

		if provider := sc.InstrumentationProvider(); provider != nil {
			provider.Metrics().RecordToolInvocation(ctx, toolName, invocation.Status(), invocation.Duration)
			provider.AuditLogger().LogToolInvocation(ctx, invocation)
		}

		return result, err
	}
}

func resultText(result *mcp.CallToolResult) string {
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return "tool returned an error result"
}
