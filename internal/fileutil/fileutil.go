package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockSuffix is appended to an output path to name its advisory lock file.
const LockSuffix = ".lock"

// ErrLocked reports that another process holds the output lock.
var ErrLocked = errors.New("output is locked by another process")

// OutputLock is an advisory lock held for the lifetime of a generate run.
type OutputLock struct {
	path string
	lock *flock.Flock
}

// LockOutput acquires a non-blocking lock on "<target>.lock". The parent
// directory is created when missing. The lock file outlives the run:
// unlinking it on release would let a waiter lock an orphaned inode while a
// newcomer locks a fresh file at the same path.
func LockOutput(target string) (*OutputLock, error) {
	if err := EnsureParentDir(target); err != nil {
		return nil, err
	}
	lockPath := target + LockSuffix
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
	}
	return &OutputLock{path: lockPath, lock: lock}, nil
}

// Path returns the lock file path.
func (l *OutputLock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks the lock file and leaves it in place. Safe on a nil lock.
func (l *OutputLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// FileSize returns the size of path in bytes, or 0 when it cannot be read.
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
