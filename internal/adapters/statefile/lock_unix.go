//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package statefile

import (
	"errors"
	"os"

	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

// fileLock is an exclusive flock held for the lifetime of a Store.
// The kernel drops it when the descriptor is closed, including on a crash.
type fileLock struct {
	file *os.File
}

// acquireLock opens (or creates) path and takes a non-blocking exclusive flock.
// A lock held by another Store fails with domain.ErrStateLocked.
func acquireLock(path string) (*fileLock, error) {
	//nolint:gosec // Lock path is derived from the cleaned state path
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, domain.FilePerm)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open state lock"), "path", path)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, zerr.With(zerr.Wrap(domain.ErrStateLocked, "state file is held by another process"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to lock state"), "path", path)
	}
	return &fileLock{file: f}, nil
}

// release unlocks and closes the lock file. Calling it again is a no-op.
func (l *fileLock) release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	return errors.Join(unlockErr, closeErr)
}
