package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the mcp-vcenter package.
const TracerName = "github.com/giantswarm/mcp-vcenter"

// Span attribute keys.
const (
	// SpanAttrTool is the MCP tool name.
	SpanAttrTool = "mcp.tool"

	// SpanAttrInvocationID correlates a span with the audit log entry.
	SpanAttrInvocationID = "mcp.invocation_id"

	// SpanAttrCluster is the vSphere cluster name or ID.
	SpanAttrCluster = "vcenter.cluster"

	// SpanAttrResourcePool is the resource pool name or ID.
	SpanAttrResourcePool = "vcenter.resource_pool"

	// SpanAttrOperation is the vCenter REST operation.
	SpanAttrOperation = "vcenter.operation"

	// SpanAttrHost is the sanitised vCenter host.
	SpanAttrHost = "vcenter.host"

	// SpanAttrRecordCount is the number of records returned by a listing.
	SpanAttrRecordCount = "vcenter.record_count"

	// SpanAttrHTTPStatusCode is the HTTP status returned by vCenter.
	SpanAttrHTTPStatusCode = "http.response.status_code"
)

// SpanAttributeBuilder helps construct OpenTelemetry span attributes
// with consistent naming.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 6),
	}
}

// WithTool adds the MCP tool name attribute.
func (b *SpanAttributeBuilder) WithTool(tool string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrTool, tool))
	return b
}

// WithCluster adds the cluster attribute when set.
func (b *SpanAttributeBuilder) WithCluster(cluster string) *SpanAttributeBuilder {
	if cluster != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrCluster, cluster))
	}
	return b
}

// WithResourcePool adds the resource pool attribute when set.
func (b *SpanAttributeBuilder) WithResourcePool(pool string) *SpanAttributeBuilder {
	if pool != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrResourcePool, pool))
	}
	return b
}

// WithOperation adds the operation type attribute.
func (b *SpanAttributeBuilder) WithOperation(operation string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrOperation, operation))
	return b
}

// WithHost adds the vCenter host attribute. Callers pass an already
// sanitised host.
func (b *SpanAttributeBuilder) WithHost(host string) *SpanAttributeBuilder {
	if host != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrHost, host))
	}
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartSpan starts a span of the given kind with the given name and attributes.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, kind trace.SpanKind, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...), trace.WithSpanKind(kind))
}

// StartToolSpan starts a span for an MCP tool invocation.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrTool, toolName))
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, "tool."+toolName, trace.SpanKindServer, allAttrs...)
}

// StartVCenterSpan starts a client span for a vCenter REST call.
func StartVCenterSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrOperation, operation))
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, "vcenter."+operation, trace.SpanKindClient, allAttrs...)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// TraceIDFromContext returns the trace ID from the current span in context.
// Returns empty string if no valid span is present.
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// SpanIDFromContext returns the span ID from the current span in context.
func SpanIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		return sc.SpanID().String()
	}
	return ""
}
