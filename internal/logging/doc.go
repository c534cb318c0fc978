// Package logging builds the slog loggers used by mihonorg.
//
// It owns the console and JSON handlers, level parsing, and output routing
// (stderr by default, optionally tee'd into a JSON log file). Attribute
// helpers and field constants keep organizer and CLI log lines in the same
// shape, and NewNop gives tests and optional wiring a logger that cannot fail.
package logging
