// Package library holds the pure and read-only pieces of chapter organization:
// discovering collections under a source root, classifying and enumerating
// image files, partitioning a sorted image list into chapters, and resolving
// collision-free destination names.
//
// Nothing here mutates the filesystem. The organizer package drives these
// helpers and performs the moves, copies and deletions.
package library
