package library

import (
	"fmt"
	"path/filepath"
	"strings"

	"mihonorg/internal/failure"
	"mihonorg/internal/fsys"
)

// DefaultMaxCollisionAttempts bounds the numeric suffixes tried for one name.
const DefaultMaxCollisionAttempts = 100000

// Resolver hands out destination paths that are free both on the filesystem
// and among the paths it already handed out during the run. Claims stand in
// for files a dry run never writes.
type Resolver struct {
	fs          fsys.FS
	maxAttempts int
	claimed     map[string]struct{}
	vacated     map[string]struct{}
}

// NewResolver builds a resolver; maxAttempts <= 0 selects DefaultMaxCollisionAttempts.
func NewResolver(fs fsys.FS, maxAttempts int) *Resolver {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxCollisionAttempts
	}
	return &Resolver{fs: fs, maxAttempts: maxAttempts, claimed: map[string]struct{}{}, vacated: map[string]struct{}{}}
}

// Resolve returns dir/name when it is free, otherwise the first free
// dir/{stem}_{n}{ext} for n = 1, 2, ... The returned path is claimed.
func (r *Resolver) Resolve(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	free, err := r.free(candidate)
	if err != nil {
		return "", err
	}
	if free {
		r.Claim(candidate)
		return candidate, nil
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for counter := 1; counter <= r.maxAttempts; counter++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		free, err := r.free(candidate)
		if err != nil {
			return "", err
		}
		if free {
			r.Claim(candidate)
			return candidate, nil
		}
	}
	return "", failure.Wrap(
		failure.ErrExhausted,
		"resolve",
		"find free name",
		fmt.Sprintf("no free name for %s in %s after %d attempts", name, dir, r.maxAttempts),
		nil,
	)
}

// Release gives back a claim, typically after the write it was made for failed.
func (r *Resolver) Release(path string) {
	delete(r.claimed, filepath.Clean(path))
}

// Claimed reports whether path was handed out and not released.
func (r *Resolver) Claimed(path string) bool {
	_, ok := r.claimed[filepath.Clean(path)]
	return ok
}

// Claim records path as taken, e.g. for a file that is already where it
// belongs.
func (r *Resolver) Claim(path string) {
	path = filepath.Clean(path)
	delete(r.vacated, path)
	r.claimed[path] = struct{}{}
}

// Vacate marks an existing path as free because a dry run pretends to have
// moved its file away.
func (r *Resolver) Vacate(path string) {
	path = filepath.Clean(path)
	delete(r.claimed, path)
	r.vacated[path] = struct{}{}
}

func (r *Resolver) free(path string) (bool, error) {
	if r.Claimed(path) {
		return false, nil
	}
	if _, ok := r.vacated[filepath.Clean(path)]; ok {
		return true, nil
	}
	exists, err := fsys.Exists(r.fs, path)
	if err != nil {
		return false, failure.Wrap(failure.ErrFilesystem, "resolve", "check destination", path, err)
	}
	return !exists, nil
}
