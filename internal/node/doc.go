// Package node assembles a running mouse node.
//
// Startup order is storage, cache, config watcher, HTTP endpoint. A node
// then parks on the shutdown handler until a lifecycle signal arrives, and
// tears the components down in the reverse order.
package node
