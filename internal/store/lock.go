package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

const sessionLockFileName = "session.lock"

// LockedError means another process holds the data dir's session lock,
// usually an open TUI.
type LockedError struct {
	Path string
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("data dir is in use by another dayplanner session (lock %s); close it and retry", e.Path)
}

// SessionLock is an exclusive advisory lock on the data dir. Whoever holds it
// is the only writer: a read-modify-write of the whole snapshot is safe
// only under it. The OS drops the lock if the holder dies, so a crashed
// session never leaves the dir locked.
type SessionLock struct {
	fl *flock.Flock
}

func (s Store) lockPath() string {
	return filepath.Join(s.Dir, sessionLockFileName)
}

// AcquireSessionLock takes the lock without blocking. It returns *LockedError
// when someone else holds it. A Store without a Dir has nothing to guard and
// gets a no-op lock.
func (s Store) AcquireSessionLock() (*SessionLock, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &SessionLock{}, nil
	}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	path := s.lockPath()
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, &LockedError{Path: path}
	}
	return &SessionLock{fl: fl}, nil
}

// Release is safe to call more than once and on a nil lock.
func (l *SessionLock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	err := l.fl.Unlock()
	l.fl = nil
	return err
}
