package output

import (
	"fmt"
	"strings"

	"github.com/giantswarm/mcp-vcenter/internal/inventory"
)

// ClusterContext returns the scope phrase for a cluster, used in list
// headings and empty-result messages.
func ClusterContext(name string) string {
	return fmt.Sprintf("cluster '%s'", name)
}

// ResourcePoolContext returns the scope phrase for a resource pool.
func ResourcePoolContext(name string) string {
	return fmt.Sprintf("resource pool '%s'", name)
}

// FormatClusterList renders all clusters in vCenter.
func FormatClusterList(clusters []inventory.Cluster) string {
	if len(clusters) == 0 {
		return "No clusters found in vCenter"
	}

	var b strings.Builder
	b.WriteString("Clusters in vCenter:\n")
	for _, c := range clusters {
		fmt.Fprintf(&b, "- %s (ID: %s)\n", c.Name, c.ID)
	}
	return b.String()
}

// FormatVMList renders the virtual machines found in scope.
func FormatVMList(vms []inventory.VirtualMachine, scope string) string {
	if len(vms) == 0 {
		return "No virtual machines found in " + scope
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Virtual machines in %s:\n", scope)
	for _, vm := range vms {
		fmt.Fprintf(&b, "- %s (Power: %s)\n", vm.Name, vm.PowerState)
	}
	return b.String()
}

// FormatResourcePoolList renders the resource pools found in scope.
func FormatResourcePoolList(pools []inventory.ResourcePool, scope string) string {
	if len(pools) == 0 {
		return "No resource pools found in " + scope
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resource pools in %s:\n", scope)
	for _, p := range pools {
		fmt.Fprintf(&b, "- %s (ID: %s)\n", p.Name, p.ID)
	}
	return b.String()
}

// FormatStatus renders a status snapshot.
func FormatStatus(s inventory.StatusSnapshot) string {
	switch s.State {
	case inventory.StateConnected:
		var b strings.Builder
		b.WriteString("vCenter Status:\n")
		fmt.Fprintf(&b, "- Connected to: %s\n", s.Host)
		fmt.Fprintf(&b, "- Clusters: %d\n", s.ClusterCount)
		fmt.Fprintf(&b, "- Resource Pools: %d\n", s.ResourcePoolCount)
		fmt.Fprintf(&b, "- Virtual Machines: %d\n", s.VMCount)
		b.WriteString("- Connection: Connected\n")
		return b.String()
	case inventory.StateFailed:
		return "Error: " + s.Error
	default:
		return "Error getting vCenter status: " + s.Error
	}
}
