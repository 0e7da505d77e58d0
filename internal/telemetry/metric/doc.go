// Package metric exposes Prometheus metrics for the mouse node.
//
// Metrics cover the node lifecycle (signals received, teardown hook timing,
// shutdown state), the cache and the embedded stores. The Registry is a
// private prometheus.Registry; Handler serves it in text exposition format.
package metric
