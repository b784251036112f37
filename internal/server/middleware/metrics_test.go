package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-vcenter/internal/instrumentation"
)

func TestStatusRecorder_CapturesStatusCode(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{name: "200 OK", statusCode: http.StatusOK},
		{name: "404 Not Found", statusCode: http.StatusNotFound},
		{name: "503 Service Unavailable", statusCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newStatusRecorder(httptest.NewRecorder())
			rec.WriteHeader(tt.statusCode)

			assert.Equal(t, tt.statusCode, rec.statusCode)
			assert.True(t, rec.written)
		})
	}
}

func TestStatusRecorder_DefaultsTo200(t *testing.T) {
	rec := newStatusRecorder(httptest.NewRecorder())

	_, err := rec.Write([]byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.statusCode)
}

func TestStatusRecorder_OnlyFirstWriteHeaderCounts(t *testing.T) {
	rec := newStatusRecorder(httptest.NewRecorder())

	rec.WriteHeader(http.StatusAccepted)
	rec.WriteHeader(http.StatusBadRequest)

	assert.Equal(t, http.StatusAccepted, rec.statusCode)
}

func TestStatusRecorder_FlushAndUnwrap(t *testing.T) {
	underlying := httptest.NewRecorder()
	rec := newStatusRecorder(underlying)

	rec.Flush()

	assert.True(t, underlying.Flushed)
	assert.Equal(t, underlying, rec.Unwrap())
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "/mcp", expected: "/mcp"},
		{input: "/sse", expected: "/sse"},
		{input: "/message", expected: "/message"},
		{input: "/health", expected: "/health"},
		{input: "/healthz", expected: "/healthz"},
		{input: "/readyz", expected: "/readyz"},
		{input: "/healthz/detailed", expected: "/healthz/detailed"},
		{input: "/x/550e8400-e29b-41d4-a716-446655440000", expected: "/x/:uuid"},
		{input: "/wp-admin/setup.php", expected: "other"},
		{input: "/", expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, routeLabel(tt.input))
		})
	}
}

func TestHTTPMetrics_NilProviderPassesThrough(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	})

	rec := httptest.NewRecorder()
	HTTPMetrics(nil)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}

func TestHTTPMetrics_RecordsRequests(t *testing.T) {
	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{
		Enabled:         true,
		MetricsExporter: instrumentation.ExporterPrometheus,
		TracingExporter: instrumentation.ExporterNone,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	handler := HTTPMetrics(provider)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/readyz" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))

	for _, path := range []string{"/health", "/readyz", "/random-scanner-path"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	scrape := httptest.NewRecorder()
	provider.MetricsHandler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(scrape.Body)
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, `http_requests_total{`)
	assert.Contains(t, out, `path="/health"`)
	assert.Contains(t, out, `status="503"`)
	assert.Contains(t, out, `path="other"`)
	assert.NotContains(t, out, "random-scanner-path")
}
