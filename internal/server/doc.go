// Package server exposes the crew backend over HTTP.
//
// Routes:
//
//	GET  /api/health   liveness probe, no auth
//	POST /api/crew     authenticated task dispatch
//	GET  /metrics      Prometheus scrape endpoint (when instrumentation is on)
//
// Only authentication and request-framing failures produce non-200 statuses
// (401/400); task-level failures travel inside the 200 response body. A
// failed crew pipeline or dispatcher is the one 500 case.
package server
