// Package failure defines the error markers shared by the organizer, the
// preflight checks and the CLI.
//
// Errors are built with Wrap so that callers can classify them with errors.Is
// against the exported markers while still reaching the underlying cause. The
// run report uses Kind to print a short label next to each recorded failure.
package failure
