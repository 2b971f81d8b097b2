// Package instrumentation provides OpenTelemetry metrics for the crew backend.
//
// Metrics are exported through a Prometheus exporter and served on the
// application's /metrics endpoint. The package covers:
//
//   - HTTP request counts and durations
//   - Descope outbound token exchanges
//   - Task executions per integration and mode
//   - Google API operations
//
// All recorders are safe to call on a nil *Metrics, so callers don't need to
// guard every call site when instrumentation is disabled.
package instrumentation
