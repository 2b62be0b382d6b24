package filelock

import "os"

// File is the capability the lock operations require from a handle: access
// to the platform-native descriptor (an integer file descriptor on Unix, a
// HANDLE value on Windows). Any file-like type exposing its descriptor can
// be locked; the library is not tied to *os.File.
//
// The descriptor is a borrowed view with no ownership semantics of its own.
// It is valid only while the handle remains open and must never be retained
// past the handle's closure.
type File interface {
	Fd() uintptr
}

var _ File = (*os.File)(nil)
