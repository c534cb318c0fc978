package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"mihonorg/internal/organizer"
)

// consolePrinter renders organizer events as human-readable lines. On a
// terminal it colors outcomes and shows a bar while a chapter is filled.
type consolePrinter struct {
	out      io.Writer
	colorize bool
	progress bool
	bar      *progressbar.ProgressBar
	removed  int
}

func newConsolePrinter(out io.Writer, interactive bool) *consolePrinter {
	return &consolePrinter{out: out, colorize: interactive, progress: interactive}
}

func (p *consolePrinter) Observe(e organizer.Event) {
	switch e.Kind {
	case organizer.EventRunStarted:
		p.line(e, "Organizing %d title(s) in %s", e.Total, e.Path)
	case organizer.EventCollectionStarted:
		p.removed = 0
		p.line(e, "%s", paint(fmt.Sprintf("[%d/%d] %s", e.Index, e.Total, e.Collection), ansiBlue, p.colorize))
	case organizer.EventCollectionSkipped:
		p.line(e, "  %s", paint("skipped: "+string(e.Reason), ansiYellow, p.colorize))
	case organizer.EventBackupCreated:
		if e.DryRun {
			p.line(e, "  would back up to %s", e.Dest)
		} else {
			p.line(e, "  backed up to %s", e.Dest)
		}
	case organizer.EventBackupExists:
		p.line(e, "  backup already exists at %s", e.Dest)
	case organizer.EventImagesCopied:
		verb := "copied"
		if e.DryRun {
			verb = "would copy"
		}
		p.line(e, "  %s %d of %d image(s) to %s", verb, e.Count, e.Total, e.Path)
	case organizer.EventChaptersPlanned:
		p.line(e, "  %d image(s) -> %d chapter(s)", e.Count, e.Total)
	case organizer.EventChapterStarted:
		p.finishBar()
		p.line(e, "  %s: %d image(s)", e.Chapter, e.Count)
		p.startBar(e)
	case organizer.EventItemPlaced:
		p.advanceBar()
	case organizer.EventItemFailed:
		p.advanceBar()
		p.clearBar()
		p.line(e, "    %s", paint(fmt.Sprintf("failed: %s: %v", e.Path, e.Err), ansiRed, p.colorize))
	case organizer.EventDirectoryRemoved:
		p.removed++
	case organizer.EventDirectoryRemoveFailed:
		p.line(e, "    %s", paint(fmt.Sprintf("could not remove %s: %v", e.Path, e.Err), ansiYellow, p.colorize))
	case organizer.EventCollectionCompleted:
		p.finishBar()
		summary := fmt.Sprintf("  done: %d image(s) in %d chapter(s)", e.Count, e.Total)
		if p.removed > 0 {
			summary += fmt.Sprintf(", %d empty folder(s) removed", p.removed)
		}
		p.line(e, "%s", paint(summary, ansiGreen, p.colorize))
	case organizer.EventRunCompleted:
		p.finishBar()
	}
}

func (p *consolePrinter) line(e organizer.Event, format string, args ...any) {
	prefix := ""
	if e.DryRun {
		prefix = "[DRY RUN] "
	}
	fmt.Fprintf(p.out, prefix+format+"\n", args...)
}

func (p *consolePrinter) startBar(e organizer.Event) {
	if !p.progress || e.DryRun || e.Count == 0 {
		return
	}
	p.bar = progressbar.NewOptions(e.Count,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("    "+e.Chapter),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(p.colorize),
	)
}

func (p *consolePrinter) advanceBar() {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *consolePrinter) clearBar() {
	if p.bar != nil {
		_ = p.bar.Clear()
	}
}

func (p *consolePrinter) finishBar() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}
