// Package handlers provides the HTTP status server that runs alongside an
// upscale when METRICS_ENABLED is set.
//
// It includes handlers for:
//   - Prometheus metrics (/metrics)
//   - Liveness and health checks (/health, /livez)
//   - Progress of the current run (/status)
package handlers
