// Package logger sets up the JSON slog handler and moves request-scoped
// loggers through a context.Context.
package logger
