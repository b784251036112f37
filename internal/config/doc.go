// Package config resolves the vCenter connection settings for the server.
//
// Credentials are taken from the VCENTER_HOST, VCENTER_USERNAME and
// VCENTER_PASSWORD environment variables. When any of them is missing the
// resolver falls back to a Cloud Foundry style service binding in
// VCAP_SERVICES, picking the first bound service whose name or label mentions
// vCenter, VMware or ESXi.
//
// Optional settings:
//
//	VCENTER_VERIFY_SSL  "false" disables certificate verification (default: enabled)
//	VCENTER_TIMEOUT     request timeout in seconds (default: 30)
//
// Invalid optional values never fail resolution; they are logged and replaced
// by their defaults. Missing credentials are reported as a *ConfigurationError.
package config
