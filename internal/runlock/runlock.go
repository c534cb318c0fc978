// Package runlock keeps two organizer runs from mutating the same source tree.
package runlock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"mihonorg/internal/failure"
)

// FileName is the advisory lock file created at the source root.
const FileName = ".mihonorg.lock"

// Lock is a held advisory lock on a source root.
type Lock struct {
	path string
	lock *flock.Flock
}

// Path returns the lock file location.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Acquire takes the lock for root without blocking. A lock held by another
// process yields an error marked failure.ErrLocked.
func Acquire(root string) (*Lock, error) {
	path := Path(root)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, failure.Wrap(failure.ErrFilesystem, "runlock", "acquire", path, err)
	}
	if !ok {
		return nil, failure.Wrap(failure.ErrLocked, "runlock", "acquire", fmt.Sprintf("another mihonorg run holds %s", path), nil)
	}
	return &Lock{path: path, lock: lock}, nil
}

// Release unlocks and removes the lock file. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	l.lock = nil
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}
