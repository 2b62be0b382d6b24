//go:build unix

package flock

import (
	"errors"

	"golang.org/x/sys/unix"
)

// LockShared blocks until a shared lock is acquired on fd.
func LockShared(fd uintptr) error {
	return unix.Flock(int(fd), unix.LOCK_SH)
}

// LockExclusive blocks until an exclusive lock is acquired on fd.
func LockExclusive(fd uintptr) error {
	return unix.Flock(int(fd), unix.LOCK_EX)
}

// TryLockShared attempts to acquire a shared lock on fd without blocking.
// Returns (false, nil) when the lock is held exclusively elsewhere.
func TryLockShared(fd uintptr) (bool, error) {
	return tryLock(fd, unix.LOCK_SH)
}

// TryLockExclusive attempts to acquire an exclusive lock on fd without
// blocking. Returns (false, nil) when any lock is held elsewhere.
func TryLockExclusive(fd uintptr) (bool, error) {
	return tryLock(fd, unix.LOCK_EX)
}

// Unlock releases any lock held on fd.
func Unlock(fd uintptr) error {
	return unix.Flock(int(fd), unix.LOCK_UN)
}

func tryLock(fd uintptr, how int) (bool, error) {
	err := unix.Flock(int(fd), how|unix.LOCK_NB)
	if err == nil {
		return true, nil
	}
	// Older Unix systems report EAGAIN where newer ones report EWOULDBLOCK;
	// per the GNU libc manual, portable code checks both.
	if errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN) {
		return false, nil
	}
	return false, err
}
