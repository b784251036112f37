// Package cmd provides the command-line interface for mcp-vcenter.
//
// Subcommands:
//   - serve: Starts the MCP server (default when no subcommand is given)
//   - check: Verifies vCenter credentials and connectivity
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest GitHub release
//
// Command Structure:
//
//	mcp-vcenter [flags]                  # Starts the MCP server (default)
//	mcp-vcenter serve [flags]            # Explicitly starts the MCP server
//	mcp-vcenter check [-o text|json|yaml]
//	mcp-vcenter version
//	mcp-vcenter self-update
//
// Transport Configuration Examples:
//
//	mcp-vcenter serve                                  # streamable-http on $HOST:$PORT
//	mcp-vcenter serve --transport sse --http-addr :8080
//	mcp-vcenter serve --transport stdio
//	mcp-vcenter serve --config /etc/mcp-vcenter/config.toml
package cmd
