// Package flock implements the per-platform advisory whole-file lock
// primitive.
//
// Every operation acts on a raw, platform-native descriptor: an integer
// file descriptor on Unix systems, a HANDLE value on Windows. The package
// owns nothing; descriptors are borrowed views into handles opened and
// closed by the caller.
//
// The non-blocking Try variants report a tri-state outcome: acquired,
// would-block, or hard error. The would-block signal differs per platform
// (EWOULDBLOCK/EAGAIN on Unix, ERROR_LOCK_VIOLATION on Windows) and is
// normalized here to a (false, nil) return so upper layers never see a
// platform-specific error code for that case.
//
// The blocking variants park the calling OS thread inside the syscall
// until the lock is granted. They must only be invoked from a context
// permitted to block; the root package dispatches them onto dedicated
// workers for that reason.
package flock
