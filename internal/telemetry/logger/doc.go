// Package logger provides structured logging for the mouse node.
//
// It wraps log/slog:
//
//   - logger.go: handler selection, global level, package-level helpers
//   - context.go: context propagation of the logger and the run ID
//
// The level is held in a process-wide slog.LevelVar so it can be changed at
// runtime when the configuration file is edited.
package logger
