package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Argument names shared by the inventory tools.
const (
	ArgClusterName      = "cluster_name"
	ArgResourcePoolName = "resource_pool_name"
)

// ClusterNameParam declares the required cluster_name argument.
func ClusterNameParam() mcp.ToolOption {
	return mcp.WithString(ArgClusterName,
		mcp.Required(),
		mcp.Description("Exact name of the cluster"),
	)
}

// ResourcePoolNameParam declares the required resource_pool_name argument.
func ResourcePoolNameParam() mcp.ToolOption {
	return mcp.WithString(ArgResourcePoolName,
		mcp.Required(),
		mcp.Description("Exact name of the resource pool"),
	)
}

// RequiredString extracts a string argument. When the argument is missing or
// not a string it returns an error result for the caller to hand back
// unchanged. An empty string is a valid value and is passed through:
//
//	name, errResult := tools.RequiredString(request, tools.ArgClusterName)
//	if errResult != nil {
//	    return errResult, nil
//	}
func RequiredString(request mcp.CallToolRequest, name string) (string, *mcp.CallToolResult) {
	value, ok := request.GetArguments()[name].(string)
	if !ok {
		return "", mcp.NewToolResultError(name + " is required")
	}
	return value, nil
}

// OptionalString returns a string argument, or "" when it is absent or not a
// string.
func OptionalString(request mcp.CallToolRequest, name string) string {
	value, _ := request.GetArguments()[name].(string)
	return value
}
