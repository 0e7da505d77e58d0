// Package shutdown turns OS lifecycle signals into a one-shot shutdown
// request for the mouse node.
//
// The package owns three things:
//
//   - The lifecycle signal mask: the only place in the process that captures
//     SIGHUP, SIGINT and SIGTERM.
//   - The Watcher: blocks a dedicated goroutine until one of those signals
//     arrives, or fails with a SignalError.
//   - The State: a process-wide Running/ShutdownRequested flag written once.
//
// Handler composes them for the host service:
//
//	h := shutdown.NewHandler(30*time.Second, shutdown.WithLogger(log))
//	h.OnShutdown("storage", func(ctx context.Context) error { return store.Close() })
//	if err := h.Wait(); err != nil {
//		// startup fault: the node cannot be asked to stop by signal
//	}
//
// The wait has no timeout. The only way to unblock it early is to deliver one
// of the lifecycle signals, for example through Interrupt.
package shutdown
