package organizer

import (
	"mihonorg/internal/library"
)

// Mode selects where chapters are built.
type Mode string

const (
	// ModeCopy leaves originals untouched and builds chapters under
	// Organized_Mihon.
	ModeCopy Mode = "copy"
	// ModeInPlace backs up each collection and reorganizes it where it is.
	ModeInPlace Mode = "in_place"
)

// Options controls a run.
type Options struct {
	// ImagesPerChapter of library.AllInOne places every image in Chapter 001.
	ImagesPerChapter int
	InPlace          bool
	DryRun           bool
	// Classifier decides which files are images; the zero value uses the
	// built-in extension list.
	Classifier library.Classifier
	// MaxCollisionAttempts of 0 selects library.DefaultMaxCollisionAttempts.
	MaxCollisionAttempts int
	Observer             Observer
	RunID                string
}

// Mode reports the mode implied by InPlace.
func (o Options) Mode() Mode {
	if o.InPlace {
		return ModeInPlace
	}
	return ModeCopy
}
