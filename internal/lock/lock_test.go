package lock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()

	l := New("/tmp/test.lock")
	if l.Path() != "/tmp/test.lock" {
		t.Errorf("Path() = %q, want /tmp/test.lock", l.Path())
	}
	if l.file != nil {
		t.Error("expected file to be nil initially")
	}
}

func TestPathFor(t *testing.T) {
	t.Parallel()

	got := PathFor("/data/ApplicationPrivateSettings.xml")
	want := "/data/ApplicationPrivateSettings.xml.recents.lock"
	if got != want {
		t.Errorf("PathFor() = %q, want %q", got, want)
	}
}

func TestFileLock_LockUnlock(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), "test.lock")
	l := New(lockPath)

	if err := l.TryLock(); err != nil {
		t.Fatalf("TryLock() error = %v", err)
	}
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		t.Error("lock file should exist after locking")
	}
	if err := l.TryLock(); err != nil {
		t.Errorf("TryLock() on held lock error = %v, want nil", err)
	}
	if err := l.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if l.file != nil {
		t.Error("expected file handle to be nil after unlocking")
	}
}

func TestFileLock_UnlockWithoutLock(t *testing.T) {
	t.Parallel()

	l := New(filepath.Join(t.TempDir(), "test.lock"))
	if err := l.Unlock(); err != nil {
		t.Errorf("Unlock() without Lock() error = %v", err)
	}
}

func TestFileLock_Contended(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), "test.lock")
	holder := New(lockPath)
	if err := holder.TryLock(); err != nil {
		t.Fatalf("holder TryLock() error = %v", err)
	}
	defer holder.Unlock()

	other := New(lockPath)
	if err := other.TryLock(); !errors.Is(err, ErrLocked) {
		t.Errorf("TryLock() on held file error = %v, want ErrLocked", err)
	}

	start := time.Now()
	err := other.TryLockFor(context.Background(), 100*time.Millisecond)
	if !errors.Is(err, ErrLocked) {
		t.Errorf("TryLockFor() error = %v, want ErrLocked", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("TryLockFor() waited %v, want bounded wait", elapsed)
	}
}

func TestFileLock_TryLockForAcquiresAfterRelease(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), "test.lock")
	holder := New(lockPath)
	if err := holder.TryLock(); err != nil {
		t.Fatalf("holder TryLock() error = %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(50 * time.Millisecond)
		holder.Unlock()
	}()

	waiter := New(lockPath)
	if err := waiter.TryLockFor(context.Background(), 2*time.Second); err != nil {
		t.Errorf("TryLockFor() error = %v, want nil after release", err)
	}
	waiter.Unlock()
	wg.Wait()
}

func TestFileLock_MissingDirectory(t *testing.T) {
	t.Parallel()

	l := New(filepath.Join(t.TempDir(), "missing", "test.lock"))
	err := l.TryLock()
	if err == nil {
		l.Unlock()
		t.Fatal("TryLock() in missing directory error = nil")
	}
	if errors.Is(err, ErrLocked) {
		t.Errorf("TryLock() error = %v, want open error", err)
	}
}
