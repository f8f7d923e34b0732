// Package adminserver provides the HTTP admin endpoint: health checks,
// Prometheus metrics and build information.
package adminserver
