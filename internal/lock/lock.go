// Package lock provides a cross-platform, cross-process single-instance
// lock guarding the persisted state and settings files.
package lock

import (
	"fmt"

	"github.com/gofrs/flock"
)

// InstanceLock wraps an advisory file lock taken for the lifetime of the
// orchestrator process.
type InstanceLock struct {
	fl *flock.Flock
}

// Acquire takes an exclusive, non-blocking lock on path. The parent
// directory must already exist.
func Acquire(path string) (*InstanceLock, error) {
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("another instance already holds %s", path)
	}
	return &InstanceLock{fl: fl}, nil
}

// Release drops the lock. Safe to call on a nil InstanceLock.
func (l *InstanceLock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
