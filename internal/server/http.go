package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-vcenter/internal/server/middleware"
)

const (
	// DefaultReadHeaderTimeout is the default timeout for reading request headers
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultWriteTimeout covers the slowest tool, which issues several
	// sequential vCenter calls each bounded by the client timeout.
	DefaultWriteTimeout = 120 * time.Second

	// DefaultIdleTimeout is the default idle timeout for keepalive connections
	DefaultIdleTimeout = 120 * time.Second

	// DefaultShutdownTimeout is the default timeout for graceful server shutdown
	DefaultShutdownTimeout = 30 * time.Second
)

// Transport names for the HTTP-based MCP transports.
const (
	TransportStreamableHTTP = "streamable-http"
	TransportSSE            = "sse"
)

// HTTPConfig configures the HTTP listener carrying MCP traffic and the
// health endpoints.
type HTTPConfig struct {
	// Addr is the listen address, for example 0.0.0.0:8080.
	Addr      string
	Transport string

	// HTTPEndpoint is the streamable-http endpoint path.
	HTTPEndpoint string

	// SSEEndpoint and MessageEndpoint are the SSE transport paths.
	SSEEndpoint     string
	MessageEndpoint string

	DisableStreaming bool

	// EnableHSTS sets Strict-Transport-Security behind a TLS-terminating proxy.
	EnableHSTS bool

	// AllowedOrigins is a comma-separated list of CORS origins.
	AllowedOrigins string
}

func (c HTTPConfig) withDefaults() HTTPConfig {
	if c.Transport == "" {
		c.Transport = TransportStreamableHTTP
	}
	if c.HTTPEndpoint == "" {
		c.HTTPEndpoint = "/mcp"
	}
	if c.SSEEndpoint == "" {
		c.SSEEndpoint = "/sse"
	}
	if c.MessageEndpoint == "" {
		c.MessageEndpoint = "/message"
	}
	return c
}

// shutdowner is implemented by both mcp-go HTTP transports.
type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// HTTPServer serves an MCP server over streamable-http or SSE next to the
// health endpoints.
type HTTPServer struct {
	mcpServer     *mcpserver.MCPServer
	serverContext *ServerContext
	config        HTTPConfig

	health     *HealthChecker
	handler    http.Handler
	transport  shutdowner
	httpServer *http.Server
}

// NewHTTPServer wires the MCP transport, health endpoints and middleware.
func NewHTTPServer(mcpSrv *mcpserver.MCPServer, sc *ServerContext, config HTTPConfig) (*HTTPServer, error) {
	if sc == nil {
		return nil, errors.New("server context is required")
	}
	config = config.withDefaults()

	allowedOrigins, err := middleware.ValidateAllowedOrigins(config.AllowedOrigins)
	if err != nil {
		return nil, fmt.Errorf("invalid ALLOWED_ORIGINS: %w", err)
	}

	s := &HTTPServer{
		mcpServer:     mcpSrv,
		serverContext: sc,
		config:        config,
		health:        NewHealthChecker(sc),
	}

	mux := http.NewServeMux()
	if err := s.setupMCPRoutes(mux); err != nil {
		return nil, err
	}
	s.health.RegisterHealthEndpoints(mux)

	var handler http.Handler = mux
	handler = middleware.CORS(allowedOrigins)(handler)
	handler = middleware.SecurityHeaders(middleware.SecurityHeadersConfig{EnableHSTS: config.EnableHSTS})(handler)
	handler = middleware.HTTPMetrics(sc.InstrumentationProvider())(handler)
	s.handler = handler

	s.httpServer = &http.Server{
		Addr:              config.Addr,
		Handler:           handler,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	return s, nil
}

func (s *HTTPServer) setupMCPRoutes(mux *http.ServeMux) error {
	switch s.config.Transport {
	case TransportStreamableHTTP:
		streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath(s.config.HTTPEndpoint),
			mcpserver.WithDisableStreaming(s.config.DisableStreaming),
		)
		mux.Handle(s.config.HTTPEndpoint, streamable)
		s.transport = streamable
	case TransportSSE:
		sse := mcpserver.NewSSEServer(s.mcpServer,
			mcpserver.WithSSEEndpoint(s.config.SSEEndpoint),
			mcpserver.WithMessageEndpoint(s.config.MessageEndpoint),
		)
		mux.Handle(s.config.SSEEndpoint, sse)
		mux.Handle(s.config.MessageEndpoint, sse)
		s.transport = sse
	default:
		return fmt.Errorf("unsupported HTTP transport: %s (supported: %s, %s)",
			s.config.Transport, TransportStreamableHTTP, TransportSSE)
	}
	return nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// HealthChecker returns the health checker backing the health endpoints.
func (s *HTTPServer) HealthChecker() *HealthChecker {
	return s.health
}

// Endpoints lists the MCP endpoint paths served.
func (s *HTTPServer) Endpoints() []string {
	if s.config.Transport == TransportSSE {
		return []string{s.config.SSEEndpoint, s.config.MessageEndpoint}
	}
	return []string{s.config.HTTPEndpoint}
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string {
	return s.config.Addr
}

// Start listens on the configured address and blocks until the server
// stops. A clean Shutdown returns nil.
func (s *HTTPServer) Start() error {
	if s.serverContext.IsShutdown() {
		return ErrServerShutdown
	}

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown marks the server not ready, then drains MCP sessions and the
// listener.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)

	var errs []error
	if s.transport != nil {
		if err := s.transport.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mcp transport shutdown: %w", err))
		}
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}
	return errors.Join(errs...)
}
