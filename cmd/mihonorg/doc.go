// Package main hosts the mihonorg CLI.
//
// The Cobra command tree resolves configuration (file, environment, flags),
// runs the preflight checks, takes the source lock and hands the work to
// internal/organizer. Console rendering, the summary table and the optional
// report and metrics files live here; the organizer itself only emits events.
package main
