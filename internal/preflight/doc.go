// Package preflight verifies that the paths a run depends on are usable
// before the organizer touches anything.
//
// The source root must exist, be a directory and be readable and searchable;
// real runs additionally need write access because every mode creates
// directories under it. Optional output locations (report and metrics files)
// are checked only for a writable parent directory.
package preflight
