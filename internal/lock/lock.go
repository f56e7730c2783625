// Package lock provides exclusive advisory file locks.
//
// A [FileLock] guards one record file through a sibling lock file so that the
// record itself can be replaced atomically while the lock is held.
package lock

import (
	"context"
	"errors"
	"os"
	"time"
)

// ErrLocked is returned when the lock is held by someone else and could not
// be acquired within the allowed time.
var ErrLocked = errors.New("file is locked")

// retryInterval is how often TryLockFor re-attempts a held lock.
const retryInterval = 25 * time.Millisecond

// FileLock provides exclusive file-based locking.
type FileLock struct {
	path string
	file *os.File
}

// New creates a new file lock for the given path.
// The lock file will be created if it doesn't exist.
func New(path string) *FileLock {
	return &FileLock{path: path}
}

// PathFor returns the lock file path guarding target.
func PathFor(target string) string {
	return target + ".recents.lock"
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// TryLock attempts to acquire the lock once without blocking.
// Returns ErrLocked if another holder has it.
func (l *FileLock) TryLock() error {
	if l.file != nil {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}

	if err := tryLockFile(f); err != nil {
		f.Close()
		return err
	}

	l.file = f
	return nil
}

// TryLockFor retries TryLock until it succeeds, timeout elapses or ctx is
// done. It never waits longer than timeout.
func (l *FileLock) TryLockFor(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		err := l.TryLock()
		if !errors.Is(err, ErrLocked) {
			return err
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return ErrLocked
		}

		select {
		case <-ctx.Done():
			return ErrLocked
		case <-time.After(retryInterval):
		}
	}
}

// Unlock releases the lock and closes the file.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}

	if err := unlockFile(l.file); err != nil {
		l.file.Close()
		l.file = nil
		return err
	}

	err := l.file.Close()
	l.file = nil
	return err
}
