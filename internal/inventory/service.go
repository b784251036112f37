package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/giantswarm/mcp-vcenter/internal/logging"
	"github.com/giantswarm/mcp-vcenter/internal/vcenter"
)

// Operation names used in logs.
const (
	opListClusters          = "list_clusters"
	opListResourcePools     = "list_resource_pools_in_cluster"
	opListVMsInCluster      = "list_vms_in_cluster"
	opListVMsInResourcePool = "list_vms_in_resource_pool"
	opStatus                = "status_snapshot"
)

// Service answers inventory queries on top of a vcenter.Client.
//
// Every operation fetches fresh data; nothing is cached between calls.
// Unexpected faults inside an operation are logged and turned into an
// empty result so callers always get a usable value.
type Service struct {
	client vcenter.Client
	host   string
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger of the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService returns a Service querying client. host is reported in
// status snapshots.
func NewService(client vcenter.Client, host string, opts ...Option) *Service {
	s := &Service{
		client: client,
		host:   host,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Host returns the vCenter host the service reports on.
func (s *Service) Host() string {
	return s.host
}

// recoverInto is deferred by operations; on a panic it logs the fault and
// runs reset to install the fallback result.
func (s *Service) recoverInto(operation string, reset func()) {
	if r := recover(); r != nil {
		s.logger.Error("inventory operation failed",
			logging.Operation(operation),
			slog.String(logging.KeyError, fmt.Sprint(r)))
		reset()
	}
}

// ListClusters returns every cluster.
func (s *Service) ListClusters(ctx context.Context) (clusters []Cluster) {
	defer s.recoverInto(opListClusters, func() { clusters = []Cluster{} })

	records := s.client.ListClusters(ctx)
	clusters = make([]Cluster, 0, len(records))
	for _, rec := range records {
		clusters = append(clusters, clusterFromRecord(rec))
	}
	s.logger.Info("retrieved clusters", logging.Count(len(clusters)))
	return clusters
}

// FindClusterByName returns the first cluster whose mapped name equals name
// exactly.
func (s *Service) FindClusterByName(ctx context.Context, name string) (Cluster, bool) {
	for _, c := range s.ListClusters(ctx) {
		if c.Name == name {
			return c, true
		}
	}
	return Cluster{}, false
}

// FindResourcePoolByName scans the unfiltered pool listing for a pool whose
// raw name equals name exactly. The returned pool has no ClusterID.
func (s *Service) FindResourcePoolByName(ctx context.Context, name string) (pool ResourcePool, found bool) {
	defer s.recoverInto("find_resource_pool", func() { pool, found = ResourcePool{}, false })

	for _, rec := range s.client.ListResourcePools(ctx, "") {
		if raw, ok := rec[keyName].(string); ok && raw == name {
			return resourcePoolFromRecord(rec, ""), true
		}
	}
	return ResourcePool{}, false
}

// ListResourcePoolsInCluster returns the pools of the named cluster, or an
// empty list when no such cluster exists.
func (s *Service) ListResourcePoolsInCluster(ctx context.Context, clusterName string) (pools []ResourcePool) {
	defer s.recoverInto(opListResourcePools, func() { pools = []ResourcePool{} })

	cluster, ok := s.FindClusterByName(ctx, clusterName)
	if !ok {
		s.logger.Warn("cluster not found", logging.Cluster(clusterName))
		return []ResourcePool{}
	}

	records := s.client.ListResourcePools(ctx, cluster.ID)
	pools = make([]ResourcePool, 0, len(records))
	for _, rec := range records {
		pools = append(pools, resourcePoolFromRecord(rec, cluster.ID))
	}
	s.logger.Info("retrieved resource pools",
		logging.Cluster(clusterName),
		logging.Count(len(pools)))
	return pools
}

// ListVMsInCluster returns the VMs of the named cluster. ResourcePoolID is
// never set on the results.
func (s *Service) ListVMsInCluster(ctx context.Context, clusterName string) (vms []VirtualMachine) {
	defer s.recoverInto(opListVMsInCluster, func() { vms = []VirtualMachine{} })

	cluster, ok := s.FindClusterByName(ctx, clusterName)
	if !ok {
		s.logger.Warn("cluster not found", logging.Cluster(clusterName))
		return []VirtualMachine{}
	}

	records := s.client.ListVMs(ctx, cluster.ID, "")
	vms = make([]VirtualMachine, 0, len(records))
	for _, rec := range records {
		vms = append(vms, vmFromRecord(rec, cluster.ID, ""))
	}
	s.logger.Info("retrieved virtual machines",
		logging.Cluster(clusterName),
		logging.Count(len(vms)))
	return vms
}

// ListVMsInResourcePool returns the VMs of the named pool. When the pool
// does not exist no VM listing is issued. ClusterID is never set on the
// results.
func (s *Service) ListVMsInResourcePool(ctx context.Context, poolName string) (vms []VirtualMachine) {
	defer s.recoverInto(opListVMsInResourcePool, func() { vms = []VirtualMachine{} })

	pool, ok := s.FindResourcePoolByName(ctx, poolName)
	if !ok {
		s.logger.Warn("resource pool not found", logging.ResourcePool(poolName))
		return []VirtualMachine{}
	}

	records := s.client.ListVMs(ctx, "", pool.ID)
	vms = make([]VirtualMachine, 0, len(records))
	for _, rec := range records {
		vms = append(vms, vmFromRecord(rec, "", pool.ID))
	}
	s.logger.Info("retrieved virtual machines",
		logging.ResourcePool(poolName),
		logging.Count(len(vms)))
	return vms
}

// StatusSnapshot checks connectivity and, when connected, counts clusters,
// resource pools and VMs from full listings.
func (s *Service) StatusSnapshot(ctx context.Context) (snap StatusSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			s.logger.Error("error getting vCenter status",
				logging.Operation(opStatus),
				slog.String(logging.KeyError, msg))
			snap = StatusSnapshot{State: StateError, Host: s.host, Error: msg}
		}
	}()

	if !s.client.TestConnection(ctx) {
		return StatusSnapshot{State: StateFailed, Host: s.host, Error: ErrCannotConnect}
	}

	clusters := s.ListClusters(ctx)
	pools := s.client.ListResourcePools(ctx, "")
	vms := s.client.ListVMs(ctx, "", "")

	return StatusSnapshot{
		State:             StateConnected,
		Host:              s.host,
		ClusterCount:      len(clusters),
		ResourcePoolCount: len(pools),
		VMCount:           len(vms),
	}
}
