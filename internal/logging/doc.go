// Package logging assembles structured slog loggers and formatting helpers used
// across storylink.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so controller code automatically tags log
// lines with story IDs, operations, and correlation IDs. Attributes whose keys
// name credentials (password, token, authorization) are redacted by both
// handlers. The package also provides a no-op logger for tests and wiring code
// that cannot fail.
package logging
