// Package inventory maps raw vCenter records to typed entities and answers
// name-based inventory queries.
//
// Lookups are exact and case-sensitive. VMs carry only the scope they were
// listed through: a VM listed by cluster has a ClusterID and no
// ResourcePoolID, and the reverse for a VM listed by resource pool.
package inventory
