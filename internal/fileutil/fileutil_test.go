package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
)

func TestLockOutputIsExclusive(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "talk.mp4")

	first, err := LockOutput(target)
	if err != nil {
		t.Fatalf("first LockOutput: %v", err)
	}
	if first.Path() != target+LockSuffix {
		t.Fatalf("unexpected lock path %q", first.Path())
	}
	if _, err := os.Stat(first.Path()); err != nil {
		t.Fatalf("expected lock file: %v", err)
	}

	if _, err := LockOutput(target); !errors.Is(err, ErrLocked) {
		t.Fatalf("second LockOutput error = %v, want ErrLocked", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(first.Path()); err != nil {
		t.Fatalf("expected lock file to stay after release: %v", err)
	}

	again, err := LockOutput(target)
	if err != nil {
		t.Fatalf("LockOutput after release: %v", err)
	}
	if err := again.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestReleasedLockFileIsReusedByWaiter(t *testing.T) {
	target := filepath.Join(t.TempDir(), "talk.mp4")

	holder, err := LockOutput(target)
	if err != nil {
		t.Fatalf("LockOutput: %v", err)
	}
	// A waiter that opened the lock file while it was held must contend on
	// the same file as anyone arriving after release.
	waiter := flock.New(holder.Path())
	defer func() { _ = waiter.Unlock() }()
	if ok, err := waiter.TryLock(); err != nil || ok {
		t.Fatalf("waiter TryLock while held = %v, %v", ok, err)
	}
	if err := holder.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if ok, err := waiter.TryLock(); err != nil || !ok {
		t.Fatalf("waiter TryLock after release = %v, %v", ok, err)
	}
	if _, err := LockOutput(target); !errors.Is(err, ErrLocked) {
		t.Fatalf("newcomer LockOutput error = %v, want ErrLocked", err)
	}
}

func TestReleaseNilLock(t *testing.T) {
	var lock *OutputLock
	if err := lock.Release(); err != nil {
		t.Fatalf("nil Release returned %v", err)
	}
	if lock.Path() != "" {
		t.Fatal("nil lock should have empty path")
	}
}

func TestFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	if err := os.WriteFile(path, []byte("12345"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := FileSize(path); got != 5 {
		t.Fatalf("FileSize = %d, want 5", got)
	}
	if got := FileSize(path + ".missing"); got != 0 {
		t.Fatalf("FileSize(missing) = %d, want 0", got)
	}
}
