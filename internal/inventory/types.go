package inventory

// Unknown replaces any identifier or name vCenter did not send as a string.
const Unknown = "Unknown"

// Cluster is a vSphere compute cluster.
type Cluster struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// ResourcePools holds pool IDs. It is nil unless explicitly fetched;
	// nil and empty mean different things.
	ResourcePools []string `json:"resource_pools,omitempty"`
}

// ResourcePool is a vSphere resource pool.
type ResourcePool struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// ClusterID is only set when the pool was listed through a cluster.
	ClusterID string `json:"cluster_id,omitempty"`
}

// VirtualMachine is a vSphere virtual machine.
type VirtualMachine struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PowerState string `json:"power_state"`

	// ClusterID and ResourcePoolID reflect the scope the VM was listed
	// through. Neither is ever derived from the other.
	ClusterID      string `json:"cluster_id,omitempty"`
	ResourcePoolID string `json:"resource_pool_id,omitempty"`
}

// ConnectionState is the outcome of a status snapshot.
type ConnectionState string

const (
	StateConnected ConnectionState = "connected"
	StateFailed    ConnectionState = "failed"
	StateError     ConnectionState = "error"
)

// ErrCannotConnect is the snapshot message when the connectivity check fails.
const ErrCannotConnect = "Cannot connect to vCenter"

// StatusSnapshot describes vCenter reachability and, when connected, the
// size of the inventory.
type StatusSnapshot struct {
	State ConnectionState `json:"state"`
	Host  string          `json:"host"`

	// Counts are only meaningful when HasCounts reports true.
	ClusterCount      int `json:"clusters"`
	ResourcePoolCount int `json:"resource_pools"`
	VMCount           int `json:"virtual_machines"`

	Error string `json:"error,omitempty"`
}

// HasCounts reports whether the inventory counts were collected.
func (s StatusSnapshot) HasCounts() bool {
	return s.State == StateConnected
}
