// Package organizer turns a source tree of per-title image folders into
// Mihon-style chapter directories.
//
// Each top-level folder under the source root is a collection. In copy mode
// its images are copied into Organized_Mihon/<title> and chaptered there; in
// in-place mode the folder is first backed up into _Backup/<title> and then
// chaptered where it is, with emptied directories pruned afterwards. Dry runs
// make every decision a real run would make but perform none of the
// mutations.
//
// Per-file failures are recorded in the Report and never stop the run. Run
// reports progress synchronously through an Observer so the CLI can render it
// without the organizer knowing about terminals.
package organizer
