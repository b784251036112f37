// Package middleware provides the HTTP middleware wrapped around the MCP and
// health endpoints: request metrics, security headers and CORS.
package middleware
