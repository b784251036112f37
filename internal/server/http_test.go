package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer(DefaultServerName, DefaultVersion, mcpserver.WithToolCapabilities(true))
}

func TestNewHTTPServer_RequiresServerContext(t *testing.T) {
	_, err := NewHTTPServer(newTestMCPServer(), nil, HTTPConfig{})
	require.Error(t, err)
}

func TestNewHTTPServer_UnsupportedTransport(t *testing.T) {
	_, err := NewHTTPServer(newTestMCPServer(), newTestServerContext(t), HTTPConfig{Transport: "websocket"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported HTTP transport: websocket")
}

func TestNewHTTPServer_InvalidAllowedOrigins(t *testing.T) {
	_, err := NewHTTPServer(newTestMCPServer(), newTestServerContext(t), HTTPConfig{AllowedOrigins: "ftp://x.example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALLOWED_ORIGINS")
}

func TestHTTPServer_Endpoints(t *testing.T) {
	tests := []struct {
		name   string
		config HTTPConfig
		want   []string
	}{
		{name: "default streamable-http", config: HTTPConfig{}, want: []string{"/mcp"}},
		{name: "custom streamable-http path", config: HTTPConfig{HTTPEndpoint: "/v1/mcp"}, want: []string{"/v1/mcp"}},
		{name: "sse", config: HTTPConfig{Transport: TransportSSE}, want: []string{"/sse", "/message"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewHTTPServer(newTestMCPServer(), newTestServerContext(t), tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Endpoints())
		})
	}
}

func TestHTTPServer_HealthThroughMiddleware(t *testing.T) {
	s, err := NewHTTPServer(newTestMCPServer(), newTestServerContext(t), HTTPConfig{Addr: "127.0.0.1:0"})
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"healthy","service":"vcenter-mcp","version":"1.0.0"}`, body.String())
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}

func TestHTTPServer_StreamableInitialize(t *testing.T) {
	s, err := NewHTTPServer(newTestMCPServer(), newTestServerContext(t), HTTPConfig{})
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	payload := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0.0.1"}}}`
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/mcp", strings.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body.String(), `"name":"vcenter-mcp"`)
}

func TestHTTPServer_ShutdownMarksNotReady(t *testing.T) {
	s, err := NewHTTPServer(newTestMCPServer(), newTestServerContext(t), HTTPConfig{})
	require.NoError(t, err)

	require.NoError(t, s.Shutdown(context.Background()))
	assert.False(t, s.HealthChecker().IsReady())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHTTPServer_StartAfterContextShutdown(t *testing.T) {
	sc := newTestServerContext(t)
	s, err := NewHTTPServer(newTestMCPServer(), sc, HTTPConfig{Addr: "127.0.0.1:0"})
	require.NoError(t, err)

	require.NoError(t, sc.Shutdown())
	assert.ErrorIs(t, s.Start(), ErrServerShutdown)
}
