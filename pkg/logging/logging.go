// Package logging provides the engine's single structured logger, passed to
// scheduler.New; the scheduler logs a run's terminal error through it.
package logging

import "go.uber.org/zap"

// New returns a production zap.Logger. Callers should defer Sync() on the
// returned logger before process exit.
func New() (*zap.Logger, error) {
	return zap.NewProduction()
}

// NewDevelopment returns a zap.Logger tuned for local debugging: human
// readable console output, debug level enabled.
func NewDevelopment() (*zap.Logger, error) {
	return zap.NewDevelopment()
}

// Noop returns a logger that discards everything, for tests and callers
// that don't want engine diagnostics.
func Noop() *zap.Logger {
	return zap.NewNop()
}
