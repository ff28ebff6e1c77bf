// Package logging wraps log/slog with the handler wiring and attribute
// helpers used throughout rsvpd. Loggers are constructed once from config
// (console or JSON output, optional log-file mirror) and threaded through
// components with NewComponentLogger.
package logging
