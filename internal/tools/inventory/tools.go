package inventory

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-vcenter/internal/server"
	"github.com/giantswarm/mcp-vcenter/internal/tools"
)

// Tool names.
const (
	ToolListClusters          = "list_clusters"
	ToolListVMsInCluster      = "list_vms_in_cluster"
	ToolListResourcePools     = "list_resource_pools"
	ToolListVMsInResourcePool = "list_vms_in_resource_pool"
	ToolGetVCenterStatus      = "get_vcenter_status"
)

// Definition binds a tool schema to its handler.
type Definition struct {
	Name    string
	Tool    mcp.Tool
	Handler tools.ToolHandler
}

func readOnly(title string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithTitleAnnotation(title),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}

func newTool(name, description, title string, opts ...mcp.ToolOption) mcp.Tool {
	all := append([]mcp.ToolOption{mcp.WithDescription(description)}, readOnly(title)...)
	return mcp.NewTool(name, append(all, opts...)...)
}

var definitions = []Definition{
	{
		Name: ToolListClusters,
		Tool: newTool(ToolListClusters,
			"List all clusters in vCenter. Returns a formatted list of all available clusters with their names and IDs.",
			"List clusters",
		),
		Handler: handleListClusters,
	},
	{
		Name: ToolListVMsInCluster,
		Tool: newTool(ToolListVMsInCluster,
			"List all virtual machines in a specific cluster. Requires the cluster name as input and returns a formatted list of VMs with their names and power states.",
			"List VMs in cluster",
			tools.ClusterNameParam(),
		),
		Handler: handleListVMsInCluster,
	},
	{
		Name: ToolListResourcePools,
		Tool: newTool(ToolListResourcePools,
			"List all resource pools in a specific cluster. Requires the cluster name as input and returns a formatted list of resource pools with their names and IDs.",
			"List resource pools",
			tools.ClusterNameParam(),
		),
		Handler: handleListResourcePools,
	},
	{
		Name: ToolListVMsInResourcePool,
		Tool: newTool(ToolListVMsInResourcePool,
			"List all virtual machines in a specific resource pool. Requires the resource pool name as input and returns a formatted list of VMs with their names and power states.",
			"List VMs in resource pool",
			tools.ResourcePoolNameParam(),
		),
		Handler: handleListVMsInResourcePool,
	},
	{
		Name: ToolGetVCenterStatus,
		Tool: newTool(ToolGetVCenterStatus,
			"Get vCenter connection status and basic information. Returns connection status, host information, and counts of clusters, resource pools, and virtual machines.",
			"vCenter status",
		),
		Handler: handleGetVCenterStatus,
	},
}

// Definitions returns the inventory tools in registration order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// RegisterTools registers all inventory tools with the MCP server.
func RegisterTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	for _, d := range definitions {
		s.AddTool(d.Tool, tools.WrapWithAuditLogging(d.Name, d.Handler, sc))
	}
	sc.Logger().Debug("registered inventory tools", "count", len(definitions))
	return nil
}
