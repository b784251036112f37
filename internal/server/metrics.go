package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/giantswarm/mcp-vcenter/internal/instrumentation"
)

// DefaultMetricsAddr is the listen address of the metrics server.
const DefaultMetricsAddr = ":9090"

const defaultMetricsPath = "/metrics"

// MetricsServerConfig configures the dedicated metrics listener.
type MetricsServerConfig struct {
	Addr                    string
	Enabled                 bool
	InstrumentationProvider *instrumentation.Provider
}

// MetricsServer exposes Prometheus metrics on a port separate from the MCP
// traffic so it can stay cluster-internal.
type MetricsServer struct {
	addr       string
	path       string
	httpServer *http.Server
}

// NewMetricsServer builds the server without starting it.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	if config.InstrumentationProvider == nil {
		return nil, errors.New("instrumentation provider is required for the metrics server")
	}

	addr := config.Addr
	if addr == "" {
		addr = DefaultMetricsAddr
	}
	path := config.InstrumentationProvider.Config().PrometheusEndpoint
	if path == "" {
		path = defaultMetricsPath
	}

	mux := http.NewServeMux()
	mux.Handle(path, config.InstrumentationProvider.MetricsHandler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	})

	return &MetricsServer{
		addr: addr,
		path: path,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			WriteTimeout:      DefaultWriteTimeout,
			IdleTimeout:       DefaultIdleTimeout,
		},
	}, nil
}

// Start blocks serving metrics until Shutdown is called, then returns
// http.ErrServerClosed.
func (m *MetricsServer) Start() error {
	return m.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server. It is safe to call without Start.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.httpServer.Shutdown(ctx)
}

// Addr returns the listen address.
func (m *MetricsServer) Addr() string {
	return m.addr
}

// Path returns the metrics endpoint path.
func (m *MetricsServer) Path() string {
	return m.path
}
