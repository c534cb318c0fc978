package organizer

import (
	"time"

	"mihonorg/internal/failure"
)

// SkipReason explains why a collection was left alone.
type SkipReason string

const (
	SkipNoImages         SkipReason = "no images"
	SkipAlreadyOrganized SkipReason = "already organized"
	SkipUnreadable       SkipReason = "unreadable"
	SkipBackupFailed     SkipReason = "backup failed"
	SkipTargetFailed     SkipReason = "target not writable"
)

// BackupState records what happened to the in-place backup.
type BackupState string

const (
	BackupCreated BackupState = "created"
	BackupExists  BackupState = "exists"
	BackupPlanned BackupState = "planned"
	BackupFailed  BackupState = "failed"
)

// Report summarizes one run.
type Report struct {
	RunID            string             `json:"run_id" yaml:"run_id" toml:"run_id"`
	Source           string             `json:"source" yaml:"source" toml:"source"`
	Mode             Mode               `json:"mode" yaml:"mode" toml:"mode"`
	DryRun           bool               `json:"dry_run" yaml:"dry_run" toml:"dry_run"`
	ImagesPerChapter int                `json:"images_per_chapter" yaml:"images_per_chapter" toml:"images_per_chapter"`
	StartedAt        time.Time          `json:"started_at" yaml:"started_at" toml:"started_at"`
	FinishedAt       time.Time          `json:"finished_at" yaml:"finished_at" toml:"finished_at"`
	Totals           Totals             `json:"totals" yaml:"totals" toml:"totals"`
	Collections      []CollectionReport `json:"collections" yaml:"collections" toml:"collections,omitempty"`
}

// Totals aggregates the per-collection results.
type Totals struct {
	Collections int `json:"collections" yaml:"collections" toml:"collections"`
	Organized   int `json:"organized" yaml:"organized" toml:"organized"`
	Skipped     int `json:"skipped" yaml:"skipped" toml:"skipped"`
	Images      int `json:"images" yaml:"images" toml:"images"`
	Chapters    int `json:"chapters" yaml:"chapters" toml:"chapters"`
	Placed      int `json:"placed" yaml:"placed" toml:"placed"`
	Failures    int `json:"failures" yaml:"failures" toml:"failures"`
	RemovedDirs int `json:"removed_dirs" yaml:"removed_dirs" toml:"removed_dirs"`
}

// CollectionReport is the outcome for one top-level folder.
type CollectionReport struct {
	Title       string          `json:"title" yaml:"title" toml:"title"`
	RawTitle    string          `json:"raw_title" yaml:"raw_title" toml:"raw_title"`
	Path        string          `json:"path" yaml:"path" toml:"path"`
	Target      string          `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
	Images      int             `json:"images" yaml:"images" toml:"images"`
	Skipped     SkipReason      `json:"skipped,omitempty" yaml:"skipped,omitempty" toml:"skipped,omitempty"`
	Backup      BackupState     `json:"backup,omitempty" yaml:"backup,omitempty" toml:"backup,omitempty"`
	BackupPath  string          `json:"backup_path,omitempty" yaml:"backup_path,omitempty" toml:"backup_path,omitempty"`
	Chapters    []ChapterReport `json:"chapters,omitempty" yaml:"chapters,omitempty" toml:"chapters,omitempty"`
	RemovedDirs []string        `json:"removed_dirs,omitempty" yaml:"removed_dirs,omitempty" toml:"removed_dirs,omitempty"`
	Failures    []Failure       `json:"failures,omitempty" yaml:"failures,omitempty" toml:"failures,omitempty"`
}

// ChapterReport counts the items planned for and placed into one chapter.
type ChapterReport struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Planned int    `json:"planned" yaml:"planned" toml:"planned"`
	Placed  int    `json:"placed" yaml:"placed" toml:"placed"`
}

// Failure is an isolated operation that did not succeed. The item involved is
// left where it was.
type Failure struct {
	Op      string `json:"op" yaml:"op" toml:"op"`
	Path    string `json:"path" yaml:"path" toml:"path"`
	Kind    string `json:"kind" yaml:"kind" toml:"kind"`
	Message string `json:"error" yaml:"error" toml:"error"`
	Err     error  `json:"-" yaml:"-" toml:"-"`
}

func newFailure(op, path string, err error) Failure {
	f := Failure{Op: op, Path: path, Kind: failure.Kind(err), Err: err}
	if err != nil {
		f.Message = err.Error()
	}
	return f
}

// Placed returns the number of items that ended up in a chapter directory.
func (c CollectionReport) Placed() int {
	n := 0
	for _, ch := range c.Chapters {
		n += ch.Placed
	}
	return n
}

// Failed reports whether the run recorded any failure.
func (r *Report) Failed() bool {
	return r != nil && r.Totals.Failures > 0
}

func (r *Report) finalize(now time.Time) {
	r.FinishedAt = now
	totals := Totals{Collections: len(r.Collections)}
	for _, c := range r.Collections {
		if c.Skipped != "" {
			totals.Skipped++
		} else {
			totals.Organized++
		}
		totals.Images += c.Images
		totals.Chapters += len(c.Chapters)
		totals.Placed += c.Placed()
		totals.Failures += len(c.Failures)
		totals.RemovedDirs += len(c.RemovedDirs)
	}
	r.Totals = totals
}
