package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"mihonorg/internal/config"
	"mihonorg/internal/failure"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Err carries the marked failure for checks that did not pass.
	Err error
}

// RunAll executes every check applicable to cfg. The source path must already
// be resolved to an absolute path.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Source directory", cfg.Paths.SourcePath, !cfg.Organize.DryRun),
	}
	if cfg.Output.ReportPath != "" {
		results = append(results, CheckParentWritable("Report file", cfg.Output.ReportPath))
	}
	if cfg.Output.MetricsPath != "" {
		results = append(results, CheckParentWritable("Metrics file", cfg.Output.MetricsPath))
	}
	return results
}

// FirstFailure returns the error of the first failed result, or nil.
func FirstFailure(results []Result) error {
	for _, r := range results {
		if !r.Passed {
			if r.Err != nil {
				return r.Err
			}
			return failure.Wrap(failure.ErrValidation, "preflight", r.Name, r.Detail, nil)
		}
	}
	return nil
}

// CheckDirectoryAccess verifies that the directory exists and is readable and
// searchable, and writable when write is set.
func CheckDirectoryAccess(name, path string, write bool) Result {
	fail := func(marker error, detail string, err error) Result {
		return Result{
			Name:   name,
			Detail: fmt.Sprintf("%s (error: %s)", path, detail),
			Err:    failure.Wrap(marker, "preflight", name, path+" "+detail, err),
		}
	}

	if path == "" {
		return fail(failure.ErrValidation, "path is empty", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fail(failure.ErrNotFound, "does not exist", nil)
		}
		return fail(failure.ErrFilesystem, "stat failed", err)
	}
	if !info.IsDir() {
		return fail(failure.ErrValidation, "is not a directory", nil)
	}

	mode := uint32(unix.R_OK | unix.X_OK)
	label := "read ok"
	if write {
		mode |= unix.W_OK
		label = "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return fail(failure.ErrFilesystem, "insufficient permissions", err)
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckParentWritable verifies that the nearest existing ancestor of path is a
// writable directory, since output files and their missing parents are
// created on demand.
func CheckParentWritable(name, path string) Result {
	dir := filepath.Dir(path)
	for {
		if _, err := os.Stat(dir); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	result := CheckDirectoryAccess(name, dir, true)
	if result.Passed {
		result.Detail = fmt.Sprintf("%s (writable)", path)
	}
	return result
}
