// Package vcenter is a read-only client for the vCenter REST API.
//
// The Client interface exposes the three inventory listings the MCP tools
// need (clusters, resource pools, virtual machines) plus a connectivity
// check. Listings return loosely typed Record values exactly as vCenter
// sent them; turning them into domain entities is the inventory package's
// job.
//
// Listing methods never return errors. Transport failures, non-2xx responses
// and undecodable bodies are logged with the response status and body and
// surface as an empty slice. Callers that need the failure itself (the
// connectivity check) go through the internal fetch path, which reports a
// *RemoteCallError.
//
// Example usage:
//
//	client := vcenter.NewRESTClient(cfg, vcenter.WithMetrics(provider.Metrics()))
//	for _, rec := range client.ListVMs(ctx, "domain-c7", "") {
//		fmt.Println(rec["name"])
//	}
package vcenter
