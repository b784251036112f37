package inventory

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-vcenter/internal/logging"
	"github.com/giantswarm/mcp-vcenter/internal/server"
	"github.com/giantswarm/mcp-vcenter/internal/tools"
	"github.com/giantswarm/mcp-vcenter/internal/tools/output"
)

// Error prefixes for recovered handler faults.
const (
	errPrefixListClusters          = "Error listing clusters: "
	errPrefixListVMsInCluster      = "Error listing VMs in cluster: "
	errPrefixListResourcePools     = "Error listing resource pools: "
	errPrefixListVMsInResourcePool = "Error listing VMs in resource pool: "
	errPrefixGetVCenterStatus      = "Error getting vCenter status: "
)

// recoverAsText turns a panic in a handler into a plain text result.
func recoverAsText(sc *server.ServerContext, tool, prefix string, result **mcp.CallToolResult, err *error) {
	r := recover()
	if r == nil {
		return
	}
	sc.Logger().Error("tool handler fault recovered",
		logging.KeyTool, tool,
		logging.KeyError, fmt.Sprint(r),
	)
	*result = mcp.NewToolResultText(prefix + fmt.Sprint(r))
	*err = nil
}

func handleListClusters(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (result *mcp.CallToolResult, err error) {
	defer recoverAsText(sc, ToolListClusters, errPrefixListClusters, &result, &err)

	clusters := sc.Inventory().ListClusters(ctx)
	return mcp.NewToolResultText(output.FormatClusterList(clusters)), nil
}

func handleListVMsInCluster(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (result *mcp.CallToolResult, err error) {
	defer recoverAsText(sc, ToolListVMsInCluster, errPrefixListVMsInCluster, &result, &err)

	clusterName, errResult := tools.RequiredString(request, tools.ArgClusterName)
	if errResult != nil {
		return errResult, nil
	}

	vms := sc.Inventory().ListVMsInCluster(ctx, clusterName)
	return mcp.NewToolResultText(output.FormatVMList(vms, output.ClusterContext(clusterName))), nil
}

func handleListResourcePools(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (result *mcp.CallToolResult, err error) {
	defer recoverAsText(sc, ToolListResourcePools, errPrefixListResourcePools, &result, &err)

	clusterName, errResult := tools.RequiredString(request, tools.ArgClusterName)
	if errResult != nil {
		return errResult, nil
	}

	pools := sc.Inventory().ListResourcePoolsInCluster(ctx, clusterName)
	return mcp.NewToolResultText(output.FormatResourcePoolList(pools, output.ClusterContext(clusterName))), nil
}

func handleListVMsInResourcePool(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (result *mcp.CallToolResult, err error) {
	defer recoverAsText(sc, ToolListVMsInResourcePool, errPrefixListVMsInResourcePool, &result, &err)

	poolName, errResult := tools.RequiredString(request, tools.ArgResourcePoolName)
	if errResult != nil {
		return errResult, nil
	}

	vms := sc.Inventory().ListVMsInResourcePool(ctx, poolName)
	return mcp.NewToolResultText(output.FormatVMList(vms, output.ResourcePoolContext(poolName))), nil
}

func handleGetVCenterStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (result *mcp.CallToolResult, err error) {
	defer recoverAsText(sc, ToolGetVCenterStatus, errPrefixGetVCenterStatus, &result, &err)

	snapshot := sc.Inventory().StatusSnapshot(ctx)
	return mcp.NewToolResultText(output.FormatStatus(snapshot)), nil
}
