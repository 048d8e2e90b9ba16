// Package logging assembles structured slog loggers and formatting helpers used
// across timeqr.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag every
// line with the run identifier. A no-op logger is provided for tests and for
// wiring code that cannot fail.
package logging
