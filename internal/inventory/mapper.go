package inventory

import "github.com/giantswarm/mcp-vcenter/internal/vcenter"

// Raw record keys of the vCenter REST API.
const (
	keyCluster      = "cluster"
	keyResourcePool = "resource_pool"
	keyVM           = "vm"
	keyName         = "name"
	keyPowerState   = "power_state"
)

// field returns rec[key] when it is a string and Unknown otherwise.
func field(rec vcenter.Record, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return Unknown
}

func clusterFromRecord(rec vcenter.Record) Cluster {
	return Cluster{
		ID:   field(rec, keyCluster),
		Name: field(rec, keyName),
	}
}

func resourcePoolFromRecord(rec vcenter.Record, clusterID string) ResourcePool {
	return ResourcePool{
		ID:        field(rec, keyResourcePool),
		Name:      field(rec, keyName),
		ClusterID: clusterID,
	}
}

func vmFromRecord(rec vcenter.Record, clusterID, resourcePoolID string) VirtualMachine {
	return VirtualMachine{
		ID:             field(rec, keyVM),
		Name:           field(rec, keyName),
		PowerState:     field(rec, keyPowerState),
		ClusterID:      clusterID,
		ResourcePoolID: resourcePoolID,
	}
}
