// Package fileutil implements the file primitives the organizer relies on:
// metadata-preserving copies with integrity checks, moves that survive device
// boundaries, and recursive tree copies for backups.
package fileutil
