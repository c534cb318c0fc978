package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"mihonorg/internal/failure"
	"mihonorg/internal/fsys"
	"mihonorg/internal/library"
	"mihonorg/internal/logging"
)

// Organizer applies one set of Options to a source root.
type Organizer struct {
	fs     fsys.FS
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// New constructs an organizer. A nil logger discards output.
func New(fs fsys.FS, opts Options, logger *slog.Logger) *Organizer {
	if fs == nil {
		fs = fsys.OS{}
	}
	return &Organizer{
		fs:     fs,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "organizer"),
		now:    time.Now,
	}
}

// Run organizes every collection under sourceRoot in listing order. Failures
// of individual files and directories are recorded in the report; the error
// result is reserved for invalid options, an unreadable source root and
// cancellation, in which case the partial report is still returned.
func (o *Organizer) Run(ctx context.Context, sourceRoot string) (*Report, error) {
	root := filepath.Clean(sourceRoot)
	report := &Report{
		RunID:            o.opts.RunID,
		Source:           root,
		Mode:             o.opts.Mode(),
		DryRun:           o.opts.DryRun,
		ImagesPerChapter: o.opts.ImagesPerChapter,
		StartedAt:        o.now(),
	}
	logger := logging.WithContext(logging.ContextWithRunID(ctx, o.opts.RunID), o.logger)

	if o.opts.ImagesPerChapter < 0 {
		report.finalize(o.now())
		return report, failure.Wrap(
			failure.ErrValidation,
			"organize",
			"validate options",
			fmt.Sprintf("images per chapter must be positive, got %d", o.opts.ImagesPerChapter),
			nil,
		)
	}

	collections, err := library.DiscoverCollections(o.fs, root)
	if err != nil {
		report.finalize(o.now())
		return report, err
	}

	logger.Info("organize run started",
		logging.String(logging.FieldPath, root),
		logging.String("mode", string(report.Mode)),
		logging.Bool(logging.FieldDryRun, o.opts.DryRun),
		logging.Int("collections", len(collections)),
	)
	o.emit(Event{Kind: EventRunStarted, Path: root, Total: len(collections)})

	run := &runState{
		Organizer: o,
		root:      root,
		logger:    logger,
		resolver:  library.NewResolver(o.fs, o.opts.MaxCollisionAttempts),
	}
	for i, c := range collections {
		if err := ctx.Err(); err != nil {
			return o.finish(report, logger), err
		}
		result, err := run.collection(ctx, c, i+1, len(collections))
		report.Collections = append(report.Collections, result)
		if err != nil {
			return o.finish(report, logger), err
		}
	}

	o.finish(report, logger)
	o.emit(Event{Kind: EventRunCompleted, Path: root, Total: report.Totals.Collections, Count: report.Totals.Placed})
	return report, nil
}

func (o *Organizer) finish(report *Report, logger *slog.Logger) *Report {
	report.finalize(o.now())
	logger.Info("organize run finished",
		logging.Int("organized", report.Totals.Organized),
		logging.Int("skipped", report.Totals.Skipped),
		logging.Int("placed", report.Totals.Placed),
		logging.Int("failures", report.Totals.Failures),
		logging.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report
}

func (o *Organizer) emit(e Event) {
	if o.opts.Observer == nil {
		return
	}
	e.DryRun = o.opts.DryRun
	o.opts.Observer.Observe(e)
}

// runState carries what is shared by every collection of one run.
type runState struct {
	*Organizer
	root     string
	logger   *slog.Logger
	resolver *library.Resolver
}

func (r *runState) collection(ctx context.Context, c library.Collection, index, total int) (CollectionReport, error) {
	result := CollectionReport{Title: c.Title, RawTitle: c.RawTitle, Path: c.Path}
	logger := r.logger.With(logging.String(logging.FieldCollection, c.Title))
	r.emit(Event{Kind: EventCollectionStarted, Collection: c.Title, Path: c.Path, Index: index, Total: total})

	images, err := library.Enumerate(r.fs, c.Path, r.opts.Classifier)
	if err != nil {
		r.recordFailure(logger, &result, "enumerate", c.Path, err)
		return r.skip(logger, result, SkipUnreadable), nil
	}
	result.Images = len(images)
	if len(images) == 0 {
		return r.skip(logger, result, SkipNoImages), nil
	}

	if r.opts.InPlace {
		result.Target = c.Path
		if alreadyChaptered(c.Path, images) {
			return r.skip(logger, result, SkipAlreadyOrganized), nil
		}
		if !r.backup(logger, c, &result) {
			return r.skip(logger, result, SkipBackupFailed), nil
		}
	} else {
		result.Target = filepath.Join(r.root, library.OrganizedDirName, c.Title)
		organized, err := r.hasImages(result.Target)
		if err != nil {
			r.recordFailure(logger, &result, "inspect_target", result.Target, err)
			return r.skip(logger, result, SkipUnreadable), nil
		}
		if organized {
			return r.skip(logger, result, SkipAlreadyOrganized), nil
		}
		var reason SkipReason
		images, reason, err = r.copyImages(ctx, logger, images, &result)
		if err != nil {
			return result, err
		}
		if reason != "" {
			return r.skip(logger, result, reason), nil
		}
	}

	chapters, err := library.Partition(len(images), r.opts.ImagesPerChapter)
	if err != nil {
		return result, err
	}
	logger.Info("chapters planned",
		logging.Int("images", len(images)),
		logging.Int("chapters", len(chapters)),
		logging.String("target", result.Target),
	)
	r.emit(Event{Kind: EventChaptersPlanned, Collection: c.Title, Path: result.Target, Total: len(chapters), Count: len(images)})

	for _, ch := range chapters {
		placed, err := r.chapter(ctx, logger, &result, images[ch.Start:ch.End], ch, len(chapters))
		result.Chapters = append(result.Chapters, placed)
		if err != nil {
			return result, err
		}
	}

	if r.opts.InPlace && !r.opts.DryRun {
		r.prune(logger, &result)
	}

	logger.Info("collection organized",
		logging.Int("placed", result.Placed()),
		logging.Int("failures", len(result.Failures)),
	)
	r.emit(Event{Kind: EventCollectionCompleted, Collection: c.Title, Path: result.Target, Count: result.Placed(), Total: len(result.Chapters)})
	return result, nil
}

func (r *runState) skip(logger *slog.Logger, result CollectionReport, reason SkipReason) CollectionReport {
	result.Skipped = reason
	logger.Info("collection skipped", logging.String("reason", string(reason)))
	r.emit(Event{Kind: EventCollectionSkipped, Collection: result.Title, Path: result.Path, Reason: reason, Count: result.Images})
	return result
}

// alreadyChaptered reports whether every image sits directly inside a
// "Chapter NNN" directory at the top of target.
func alreadyChaptered(target string, images []library.Image) bool {
	for _, img := range images {
		parent := filepath.Dir(img.Path)
		if filepath.Dir(parent) != target {
			return false
		}
		if _, ok := library.ParseChapterName(filepath.Base(parent)); !ok {
			return false
		}
	}
	return true
}

func (r *runState) hasImages(dir string) (bool, error) {
	exists, err := fsys.Exists(r.fs, dir)
	if err != nil || !exists {
		return false, err
	}
	images, err := library.Enumerate(r.fs, dir, r.opts.Classifier)
	if err != nil {
		return false, err
	}
	return len(images) > 0, nil
}

// backup deep-copies the collection into _Backup/<title> unless a backup
// already exists. It returns false when the collection must not be touched.
func (r *runState) backup(logger *slog.Logger, c library.Collection, result *CollectionReport) bool {
	backupPath := filepath.Join(r.root, library.BackupDirName, c.Title)
	result.BackupPath = backupPath

	exists, err := fsys.Exists(r.fs, backupPath)
	if err != nil {
		result.Backup = BackupFailed
		r.recordFailure(logger, result, "backup", backupPath, err)
		return false
	}
	if exists {
		result.Backup = BackupExists
		logger.Info("backup already present", logging.String(logging.FieldPath, backupPath))
		r.emit(Event{Kind: EventBackupExists, Collection: c.Title, Path: c.Path, Dest: backupPath})
		return true
	}
	if r.opts.DryRun {
		result.Backup = BackupPlanned
		r.emit(Event{Kind: EventBackupCreated, Collection: c.Title, Path: c.Path, Dest: backupPath})
		return true
	}
	// _Backup/<title> only ever holds a complete copy; work happens in a
	// hidden sibling that is renamed into place.
	partial := filepath.Join(filepath.Dir(backupPath), "."+c.Title+".partial")
	if err := r.discardPartial(partial); err != nil {
		result.Backup = BackupFailed
		r.recordFailure(logger, result, "backup", partial,
			failure.Wrap(failure.ErrFilesystem, "organize", "discard stale backup", partial, err))
		return false
	}
	if err := r.fs.CopyTree(c.Path, partial); err != nil {
		result.Backup = BackupFailed
		r.recordFailure(logger, result, "backup", backupPath,
			failure.Wrap(failure.ErrFilesystem, "organize", "backup", c.Path, err))
		r.cleanupPartial(logger, partial)
		return false
	}
	if err := r.fs.RenameDir(partial, backupPath); err != nil {
		result.Backup = BackupFailed
		r.recordFailure(logger, result, "backup", backupPath,
			failure.Wrap(failure.ErrFilesystem, "organize", "finalize backup", partial, err))
		r.cleanupPartial(logger, partial)
		return false
	}
	result.Backup = BackupCreated
	logger.Info("backup created", logging.String(logging.FieldPath, backupPath))
	r.emit(Event{Kind: EventBackupCreated, Collection: c.Title, Path: c.Path, Dest: backupPath})
	return true
}

func (r *runState) discardPartial(partial string) error {
	exists, err := fsys.Exists(r.fs, partial)
	if err != nil || !exists {
		return err
	}
	return r.fs.RemoveTree(partial)
}

func (r *runState) cleanupPartial(logger *slog.Logger, partial string) {
	if err := r.discardPartial(partial); err != nil {
		logging.WarnWithContext(logger, "incomplete backup left behind", "backup_cleanup_failed",
			logging.Error(err),
			logging.String(logging.FieldPath, partial),
			logging.String(logging.FieldErrorHint, "delete the .partial directory under "+library.BackupDirName),
			logging.String(logging.FieldImpact, "the next run discards it before copying again"),
		)
	}
}

// copyImages copies every image into the collection's target and returns the
// working list for chaptering: the target's images on a real run, the planned
// copy paths on a dry run.
func (r *runState) copyImages(ctx context.Context, logger *slog.Logger, images []library.Image, result *CollectionReport) ([]library.Image, SkipReason, error) {
	target := result.Target
	if !r.opts.DryRun {
		if err := r.fs.MkdirAll(target); err != nil {
			r.recordFailure(logger, result, "mkdir", target, failure.Wrap(failure.ErrFilesystem, "organize", "create target", target, err))
			return nil, SkipTargetFailed, nil
		}
	}

	planned := make([]library.Image, 0, len(images))
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		dest, err := r.resolver.Resolve(target, img.Name)
		if err != nil {
			r.itemFailed(logger, result, "copy", img.Path, "", err)
			continue
		}
		if !r.opts.DryRun {
			if err := r.fs.CopyFile(img.Path, dest); err != nil {
				r.resolver.Release(dest)
				r.itemFailed(logger, result, "copy", img.Path, "", failure.Wrap(failure.ErrFilesystem, "organize", "copy", dest, err))
				continue
			}
		}
		planned = append(planned, library.Image{Path: dest, Name: filepath.Base(dest)})
	}
	logger.Info("images copied", logging.Int("count", len(planned)), logging.String("target", target))
	r.emit(Event{Kind: EventImagesCopied, Collection: result.Title, Path: target, Count: len(planned), Total: len(images)})

	if r.opts.DryRun {
		library.SortImages(planned)
		return planned, "", nil
	}
	working, err := library.Enumerate(r.fs, target, r.opts.Classifier)
	if err != nil {
		r.recordFailure(logger, result, "enumerate", target, err)
		return nil, SkipUnreadable, nil
	}
	return working, "", nil
}

func (r *runState) chapter(ctx context.Context, logger *slog.Logger, result *CollectionReport, items []library.Image, ch library.Chapter, total int) (ChapterReport, error) {
	placed := ChapterReport{Name: ch.Name, Planned: len(items)}
	dir := filepath.Join(result.Target, ch.Name)
	logger = logger.With(logging.String(logging.FieldChapter, ch.Name))
	r.emit(Event{Kind: EventChapterStarted, Collection: result.Title, Chapter: ch.Name, Path: dir, Index: ch.Number, Total: total, Count: len(items)})

	if !r.opts.DryRun {
		if err := r.fs.MkdirAll(dir); err != nil {
			r.recordFailure(logger, result, "mkdir", dir, failure.Wrap(failure.ErrFilesystem, "organize", "create chapter", dir, err))
			return placed, nil
		}
	}

	for i, img := range items {
		if err := ctx.Err(); err != nil {
			return placed, err
		}
		if img.Path == filepath.Join(dir, img.Name) {
			r.resolver.Claim(img.Path)
			placed.Placed++
			r.emit(Event{Kind: EventItemPlaced, Collection: result.Title, Chapter: ch.Name, Path: img.Path, Dest: img.Path, Index: i + 1, Total: len(items)})
			continue
		}
		dest, err := r.resolver.Resolve(dir, img.Name)
		if err != nil {
			r.itemFailed(logger, result, "move", img.Path, ch.Name, err)
			continue
		}
		if r.opts.DryRun {
			r.resolver.Vacate(img.Path)
		} else if err := r.fs.Move(img.Path, dest); err != nil {
			r.resolver.Release(dest)
			r.itemFailed(logger, result, "move", img.Path, ch.Name, failure.Wrap(failure.ErrFilesystem, "organize", "move", dest, err))
			continue
		}
		placed.Placed++
		logger.Debug("image placed", logging.String(logging.FieldPath, img.Path), logging.String("dest", dest))
		r.emit(Event{Kind: EventItemPlaced, Collection: result.Title, Chapter: ch.Name, Path: img.Path, Dest: dest, Index: i + 1, Total: len(items)})
	}
	return placed, nil
}

func (r *runState) itemFailed(logger *slog.Logger, result *CollectionReport, op, path, chapter string, err error) {
	r.recordFailure(logger, result, op, path, err)
	r.emit(Event{Kind: EventItemFailed, Collection: result.Title, Chapter: chapter, Path: path, Err: err})
}

func (r *runState) recordFailure(logger *slog.Logger, result *CollectionReport, op, path string, err error) {
	result.Failures = append(result.Failures, newFailure(op, path, err))
	logging.WarnWithContext(logger, "operation failed",
		op+"_failed",
		logging.String("op", op),
		logging.String(logging.FieldPath, path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check permissions and free space, then rerun"),
	)
}
