// Package fsys abstracts the filesystem operations the organizer performs so
// planning and execution can run against the real disk or an in-memory fake.
package fsys

import (
	"errors"
	"io/fs"
	"os"

	"mihonorg/internal/fileutil"
)

// FS lists, inspects and mutates a directory tree. Paths are absolute and
// use the host separator.
type FS interface {
	ReadDir(name string) ([]fs.DirEntry, error)
	Stat(name string) (fs.FileInfo, error)
	MkdirAll(name string) error
	// Move renames a file; dst must not exist.
	Move(src, dst string) error
	// CopyFile duplicates a file preserving its metadata; dst must not exist.
	CopyFile(src, dst string) error
	// CopyTree duplicates a whole directory tree; dst must not exist.
	CopyTree(src, dst string) error
	// RenameDir renames a directory within one filesystem; dst must not exist.
	RenameDir(src, dst string) error
	// RemoveDir removes an empty directory.
	RemoveDir(name string) error
	// RemoveTree removes name and everything below it. A missing name is not
	// an error.
	RemoveTree(name string) error
}

// Exists reports whether name is present. Errors other than "not exist" are
// returned to the caller.
func Exists(fsys FS, name string) (bool, error) {
	_, err := fsys.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// OS is the FS backed by the host filesystem.
type OS struct{}

func (OS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }

func (OS) Stat(name string) (fs.FileInfo, error) { return os.Lstat(name) }

func (OS) MkdirAll(name string) error { return os.MkdirAll(name, 0o755) }

func (OS) Move(src, dst string) error { return fileutil.MoveFile(src, dst) }

func (OS) CopyFile(src, dst string) error { return fileutil.CopyFile(src, dst) }

func (OS) CopyTree(src, dst string) error { return fileutil.CopyTree(src, dst) }

func (OS) RenameDir(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &fs.PathError{Op: "rename", Path: dst, Err: fs.ErrExist}
	}
	return os.Rename(src, dst)
}

func (OS) RemoveDir(name string) error { return os.Remove(name) }

func (OS) RemoveTree(name string) error { return os.RemoveAll(name) }
