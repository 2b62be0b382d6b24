package filelock

import (
	"context"
	"fmt"

	"github.com/mrz1836/go-filelock/internal/flock"
)

// lockMode selects the OS-level lock class. Shared and exclusive are
// distinct classes; holding one does not imply the other.
type lockMode int

const (
	modeShared lockMode = iota
	modeExclusive
)

func (m lockMode) String() string {
	if m == modeShared {
		return "shared"
	}
	return "exclusive"
}

// LockShared acquires a shared lock on f, waiting until the OS grants it.
// Multiple handles may hold shared locks on the same file concurrently.
// On success the returned guard owns f.
func LockShared[F File](ctx context.Context, f F, opts ...Option) (*Lock[F], error) {
	o := newOptions(opts)
	if err := lockBlocking(ctx, f.Fd(), modeShared, o); err != nil {
		return nil, err
	}
	return newLock(f, o), nil
}

// LockExclusive acquires an exclusive lock on f, waiting until the OS
// grants it. On success the returned guard owns f.
func LockExclusive[F File](ctx context.Context, f F, opts ...Option) (*Lock[F], error) {
	o := newOptions(opts)
	if err := lockBlocking(ctx, f.Fd(), modeExclusive, o); err != nil {
		return nil, err
	}
	return newLock(f, o), nil
}

// LockSharedRef is the borrowing form of LockShared: the returned guard
// releases the lock in place and f stays with the caller.
func LockSharedRef[F File](ctx context.Context, f F, opts ...Option) (*LockRef[F], error) {
	o := newOptions(opts)
	if err := lockBlocking(ctx, f.Fd(), modeShared, o); err != nil {
		return nil, err
	}
	return newLockRef(f, o), nil
}

// LockExclusiveRef is the borrowing form of LockExclusive.
func LockExclusiveRef[F File](ctx context.Context, f F, opts ...Option) (*LockRef[F], error) {
	o := newOptions(opts)
	if err := lockBlocking(ctx, f.Fd(), modeExclusive, o); err != nil {
		return nil, err
	}
	return newLockRef(f, o), nil
}

// TryLockShared attempts a shared lock on f without blocking. It returns
// (guard, true, nil) on success and (nil, false, nil) when the lock is held
// exclusively elsewhere; would-block is an outcome, never an error. Safe to
// call from any goroutine.
func TryLockShared[F File](f F, opts ...Option) (*Lock[F], bool, error) {
	o := newOptions(opts)
	ok, err := flock.TryLockShared(f.Fd())
	if err != nil || !ok {
		return nil, false, err
	}
	return newLock(f, o), true, nil
}

// TryLockExclusive attempts an exclusive lock on f without blocking. It
// returns (guard, true, nil) on success and (nil, false, nil) when any lock
// is held elsewhere. Safe to call from any goroutine.
func TryLockExclusive[F File](f F, opts ...Option) (*Lock[F], bool, error) {
	o := newOptions(opts)
	ok, err := flock.TryLockExclusive(f.Fd())
	if err != nil || !ok {
		return nil, false, err
	}
	return newLock(f, o), true, nil
}

// TryLockSharedRef is the borrowing form of TryLockShared.
func TryLockSharedRef[F File](f F, opts ...Option) (*LockRef[F], bool, error) {
	o := newOptions(opts)
	ok, err := flock.TryLockShared(f.Fd())
	if err != nil || !ok {
		return nil, false, err
	}
	return newLockRef(f, o), true, nil
}

// TryLockExclusiveRef is the borrowing form of TryLockExclusive.
func TryLockExclusiveRef[F File](f F, opts ...Option) (*LockRef[F], bool, error) {
	o := newOptions(opts)
	ok, err := flock.TryLockExclusive(f.Fd())
	if err != nil || !ok {
		return nil, false, err
	}
	return newLockRef(f, o), true, nil
}

// lockBlocking dispatches the blocking primitive call to the configured
// worker and suspends until it returns or ctx is canceled. Cancellation
// abandons the wait only: the OS call keeps running on the worker and may
// still acquire the lock with no guard to represent it (see the package
// comment).
func lockBlocking(ctx context.Context, fd uintptr, mode lockMode, o options) error {
	// Buffered so the worker can always deliver the result, even after the
	// waiter has gone.
	result := make(chan error, 1)

	o.logger.Debug().Stringer("mode", mode).Msg("dispatching blocking lock call")

	err := o.dispatcher.Dispatch(func() {
		switch mode {
		case modeShared:
			result <- flock.LockShared(fd)
		case modeExclusive:
			result <- flock.LockExclusive(fd)
		}
	})
	if err != nil {
		// A dispatcher that cannot accept work is a broken environment, not
		// a lock failure. Returning it as one would invite retries against
		// a dead worker pool.
		panic(fmt.Sprintf("filelock: dispatch of blocking lock call failed: %v", err))
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
