// Package main provides the entry point for mouse-node.
//
// mouse-node opens the intrinsic and extrinsic key-value databases, builds
// the record cache and waits for SIGHUP, SIGINT or SIGTERM. Any of the three
// starts an orderly shutdown.
//
// Usage:
//
//	mouse-node --kvs-db-path /var/lib/mouse
//	mouse-node --config /etc/mouse/node.yaml
//	mouse-node --config /etc/mouse/node.yaml check
package main
