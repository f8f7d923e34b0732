// Package metric provides the Prometheus metrics of respkv.
//
//   - prometheus.go: the application registry and its /metrics handler
//   - collector.go: a collector that samples key counts on scrape
//
// All metrics live in a private registry rather than the global default,
// so tests can build as many servers as they need.
package metric
