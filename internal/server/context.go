package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/giantswarm/mcp-vcenter/internal/instrumentation"
	"github.com/giantswarm/mcp-vcenter/internal/inventory"
)

// Inventory is the read-only query surface the MCP tools are built on.
// *inventory.Service satisfies it.
type Inventory interface {
	Host() string
	ListClusters(ctx context.Context) []inventory.Cluster
	ListResourcePoolsInCluster(ctx context.Context, clusterName string) []inventory.ResourcePool
	ListVMsInCluster(ctx context.Context, clusterName string) []inventory.VirtualMachine
	ListVMsInResourcePool(ctx context.Context, poolName string) []inventory.VirtualMachine
	StatusSnapshot(ctx context.Context) inventory.StatusSnapshot
}

var _ Inventory = (*inventory.Service)(nil)

// ServerContext encapsulates all dependencies needed by the MCP server
// and owns its lifecycle.
type ServerContext struct {
	inventory Inventory
	logger    *slog.Logger
	config    *Config

	instrumentationProvider *instrumentation.Provider

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new ServerContext with default values.
// Use the provided functional options to customize the context.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	serverCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:    serverCtx,
		cancel: cancel,
		config: NewDefaultConfig(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(sc); err != nil {
			cancel()
			return nil, err
		}
	}

	if err := sc.validate(); err != nil {
		cancel()
		return nil, err
	}

	return sc, nil
}

// Context returns the server context for cancellation and deadlines.
func (sc *ServerContext) Context() context.Context {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ctx
}

// Inventory returns the vCenter inventory the tools query.
func (sc *ServerContext) Inventory() Inventory {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.inventory
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.logger
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config
}

// InstrumentationProvider returns the OpenTelemetry provider, or nil when
// none was configured.
func (sc *ServerContext) InstrumentationProvider() *instrumentation.Provider {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.instrumentationProvider
}

// Shutdown cancels the server context. It is safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.logger.Info("shutting down server context")
	if sc.cancel != nil {
		sc.cancel()
	}
	sc.shutdown = true
	return nil
}

// IsShutdown returns true if the server context has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

func (sc *ServerContext) validate() error {
	if sc.inventory == nil {
		return ErrMissingInventory
	}
	if sc.logger == nil {
		return ErrMissingLogger
	}
	if sc.config == nil {
		return ErrMissingConfig
	}
	return nil
}

// Config holds the server identity and logging settings.
type Config struct {
	// ServerName and Version are reported by the MCP handshake and /health.
	ServerName string `json:"serverName"`
	Version    string `json:"version"`

	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`
}

const (
	// DefaultServerName is the service name reported by /health.
	DefaultServerName = "vcenter-mcp"
	// DefaultVersion is the version reported when none is injected at build time.
	DefaultVersion = "1.0.0"
	// HealthServiceVersion is the fixed version reported by /health, independent
	// of the build version.
	HealthServiceVersion = "1.0.0"
)

// NewDefaultConfig creates a configuration with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		ServerName: DefaultServerName,
		Version:    DefaultVersion,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
