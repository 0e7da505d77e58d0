// Package httpserver serves the node's operational HTTP endpoints:
// Prometheus metrics, liveness and readiness.
//
// Readiness turns to 503 as soon as shutdown has been requested so load
// balancers stop routing to a node that is tearing down.
package httpserver
