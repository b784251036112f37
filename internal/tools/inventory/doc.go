// Package inventory registers the read-only vCenter inventory tools:
// list_clusters, list_vms_in_cluster, list_resource_pools,
// list_vms_in_resource_pool and get_vcenter_status.
//
// Every handler answers with plain text rendered by the output package.
// Faults inside a handler are recovered and reported as text with an
// "Error ...: " prefix, so a tool call never fails at the protocol level
// except for a missing required argument.
package inventory
