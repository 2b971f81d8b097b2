// Package descope integrates with the Descope identity platform.
//
// It provides two request-scoped concerns:
//
//   - Validator verifies opaque session tokens presented as bearer
//     credentials and resolves them to a verified Identity.
//   - Broker exchanges a verified session for short-lived delegated access
//     tokens scoped to a single outbound integration (Google Calendar,
//     Google Contacts).
//
// Delegated tokens are fetched fresh for every adapter invocation and are
// never cached or reused across integrations or requests.
package descope
