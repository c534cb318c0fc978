package organizer

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"mihonorg/internal/logging"
)

// prune removes empty directories below the collection target, deepest
// first, repeating until a sweep removes nothing. The target itself is kept.
// Directories that fail to delete are recorded once and not retried.
func (r *runState) prune(logger *slog.Logger, result *CollectionReport) {
	target := result.Target
	failed := map[string]struct{}{}
	for {
		removed := 0
		for _, dir := range r.subdirectories(target) {
			if _, skip := failed[dir]; skip {
				continue
			}
			entries, err := r.fs.ReadDir(dir)
			if err != nil || len(entries) > 0 {
				continue
			}
			if err := r.fs.RemoveDir(dir); err != nil {
				failed[dir] = struct{}{}
				result.Failures = append(result.Failures, newFailure("remove_dir", dir, err))
				logging.WarnWithContext(logger, "empty directory not removed", "remove_dir_failed",
					logging.String(logging.FieldPath, dir),
					logging.Error(err),
					logging.String(logging.FieldImpact, "empty directory left behind"),
				)
				r.emit(Event{Kind: EventDirectoryRemoveFailed, Collection: result.Title, Path: dir, Err: err})
				continue
			}
			removed++
			result.RemovedDirs = append(result.RemovedDirs, dir)
			logger.Debug("empty directory removed", logging.String(logging.FieldPath, dir))
			r.emit(Event{Kind: EventDirectoryRemoved, Collection: result.Title, Path: dir})
		}
		if removed == 0 {
			return
		}
	}
}

// subdirectories lists every directory below root, deepest first. Unreadable
// directories are listed but not descended into.
func (r *runState) subdirectories(root string) []string {
	var dirs []string
	pending := []string{root}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		entries, err := r.fs.ReadDir(current)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				path := filepath.Join(current, entry.Name())
				dirs = append(dirs, path)
				pending = append(pending, path)
			}
		}
	}
	sep := string(filepath.Separator)
	sort.Slice(dirs, func(i, j int) bool {
		di, dj := strings.Count(dirs[i], sep), strings.Count(dirs[j], sep)
		if di != dj {
			return di > dj
		}
		return dirs[i] < dirs[j]
	})
	return dirs
}
