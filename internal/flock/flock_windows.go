//go:build windows

package flock

import (
	"errors"

	"golang.org/x/sys/windows"
)

// Windows LockFileEx/UnlockFileEx API parameters. The byte range uses the
// maximal offsets so the lock covers the whole file, matching flock's
// whole-file semantics on Unix.
// See: https://learn.microsoft.com/en-us/windows/win32/api/fileapi/nf-fileapi-lockfileex
const (
	lockReserved  = 0          // Reserved parameter, must be zero
	lockBytesLow  = ^uint32(0) // Low-order 32 bits of byte range to lock
	lockBytesHigh = ^uint32(0) // High-order 32 bits of byte range to lock
)

// LockShared blocks until a shared lock is acquired on fd.
func LockShared(fd uintptr) error {
	return lockFile(fd, 0)
}

// LockExclusive blocks until an exclusive lock is acquired on fd.
func LockExclusive(fd uintptr) error {
	return lockFile(fd, windows.LOCKFILE_EXCLUSIVE_LOCK)
}

// TryLockShared attempts to acquire a shared lock on fd without blocking.
// Returns (false, nil) when the lock is held exclusively elsewhere.
func TryLockShared(fd uintptr) (bool, error) {
	return tryLock(fd, windows.LOCKFILE_FAIL_IMMEDIATELY)
}

// TryLockExclusive attempts to acquire an exclusive lock on fd without
// blocking. Returns (false, nil) when any lock is held elsewhere.
func TryLockExclusive(fd uintptr) (bool, error) {
	return tryLock(fd, windows.LOCKFILE_FAIL_IMMEDIATELY|windows.LOCKFILE_EXCLUSIVE_LOCK)
}

// Unlock releases any lock held on fd.
func Unlock(fd uintptr) error {
	return windows.UnlockFileEx(
		windows.Handle(fd),
		lockReserved,
		lockBytesLow,
		lockBytesHigh,
		&windows.Overlapped{},
	)
}

func tryLock(fd uintptr, flags uint32) (bool, error) {
	err := lockFile(fd, flags)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
		return false, nil
	}
	return false, err
}

func lockFile(fd uintptr, flags uint32) error {
	return windows.LockFileEx(
		windows.Handle(fd),
		flags,
		lockReserved,
		lockBytesLow,
		lockBytesHigh,
		&windows.Overlapped{},
	)
}
