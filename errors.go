package filelock

import "errors"

// Sentinel errors for programmatic categorization via errors.Is.
var (
	// ErrAlreadyUnlocked indicates that a guard's unlock path was invoked
	// after the guard had already been consumed. The OS-level unlock is
	// issued at most once per guard; later calls fail with this error
	// without touching the OS lock.
	ErrAlreadyUnlocked = errors.New("lock already unlocked")

	// ErrDispatcherClosed indicates that a Dispatcher can no longer accept
	// work. The blocking lock path treats this as a fatal environment
	// fault, not a lock failure.
	ErrDispatcherClosed = errors.New("dispatcher closed")
)
