// Package logging provides structured logging utilities for the crew backend.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithIntegration(slog.Default(), "google-calendar")
//	logger.Info("token exchanged",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("session validated",
//	    logging.UserHash(userID))
//
// # Security Considerations
//
//   - User identifiers are hashed to prevent PII leakage while allowing correlation
//   - Session and access tokens are never logged directly; use SanitizeToken
package logging
