// Package logging provides structured logging utilities for the mcp-vcenter application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Host/URL sanitization (IP addresses are redacted)
//   - Secret masking for passwords
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "vcenter.list_vms")
//	logger.Info("listing virtual machines",
//	    logging.Cluster("prod"),
//	    logging.Count(12))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("connecting",
//	    logging.Host(cfg.Host),
//	    slog.String("password", logging.MaskSecret(cfg.Password)))
//
// # Security Considerations
//
//   - vCenter URLs have IP addresses redacted to prevent topology leakage
//   - Passwords are never logged directly
package logging
