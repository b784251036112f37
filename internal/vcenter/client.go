package vcenter

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"time"

	"github.com/giantswarm/mcp-vcenter/internal/config"
	"github.com/giantswarm/mcp-vcenter/internal/instrumentation"
	"github.com/giantswarm/mcp-vcenter/internal/logging"
)

// Record is one raw inventory object as returned by vCenter.
type Record = map[string]any

// REST endpoints relative to {host}/rest/.
const (
	EndpointClusters      = "vcenter/cluster"
	EndpointResourcePools = "vcenter/resource-pool"
	EndpointVMs           = "vcenter/vm"
)

// Query parameter names used as listing filters.
const (
	filterClusters      = "clusters"
	filterResourcePools = "resource_pools"
)

// Client defines the read-only vCenter operations used by the inventory layer.
type Client interface {
	// ListClusters returns every cluster visible to the configured user.
	ListClusters(ctx context.Context) []Record

	// ListResourcePools returns resource pools, filtered by cluster ID when
	// clusterID is non-empty.
	ListResourcePools(ctx context.Context, clusterID string) []Record

	// ListVMs returns virtual machines, filtered by cluster ID and/or
	// resource pool ID when non-empty.
	ListVMs(ctx context.Context, clusterID, resourcePoolID string) []Record

	// TestConnection reports whether a cluster listing succeeds.
	TestConnection(ctx context.Context) bool
}

// RESTClient implements Client over HTTP basic auth.
type RESTClient struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
}

var _ Client = (*RESTClient)(nil)

// Option configures a RESTClient.
type Option func(*RESTClient)

// WithMetrics records every REST call into m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *RESTClient) {
		c.metrics = m
	}
}

// WithLogger sets the logger used for request and failure logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *RESTClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewRESTClient builds a client for cfg. The HTTP client is created once and
// shared by every call.
func NewRESTClient(cfg config.ConnectionConfig, opts ...Option) *RESTClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: !cfg.VerifySSL, //nolint:gosec // G402: disabled only by VCENTER_VERIFY_SSL=false
	}

	c := &RESTClient{
		baseURL:  cfg.Host + "/rest/",
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListClusters implements Client.
func (c *RESTClient) ListClusters(ctx context.Context) []Record {
	return c.list(ctx, instrumentation.OperationListClusters, EndpointClusters, nil)
}

// ListResourcePools implements Client.
func (c *RESTClient) ListResourcePools(ctx context.Context, clusterID string) []Record {
	return c.list(ctx, instrumentation.OperationListResourcePools, EndpointResourcePools, filters{
		filterClusters: clusterID,
	})
}

// ListVMs implements Client.
func (c *RESTClient) ListVMs(ctx context.Context, clusterID, resourcePoolID string) []Record {
	return c.list(ctx, instrumentation.OperationListVMs, EndpointVMs, filters{
		filterClusters:      clusterID,
		filterResourcePools: resourcePoolID,
	})
}

// TestConnection implements Client. An empty cluster list still counts as
// connected; any fetch failure does not.
func (c *RESTClient) TestConnection(ctx context.Context) bool {
	start := time.Now()
	_, err := c.fetch(ctx, instrumentation.OperationListClusters, EndpointClusters, nil)
	if err != nil {
		c.logger.Error("vCenter connection test failed",
			logging.SanitizedErr(err),
			slog.Duration(logging.KeyDuration, time.Since(start)))
		return false
	}
	return true
}

// list performs fetch and folds every failure into an empty result.
func (c *RESTClient) list(ctx context.Context, operation, endpoint string, f filters) []Record {
	records, err := c.fetch(ctx, operation, endpoint, f)
	if err != nil {
		c.logFailure(operation, err)
		return []Record{}
	}
	c.logger.Info("retrieved records from vCenter",
		logging.Operation(operation),
		logging.Count(len(records)))
	return records
}
