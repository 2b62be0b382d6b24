package filelock

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/mrz1836/go-filelock/internal/flock"
)

// guard is the release core shared by both guard shapes. The consumed flag
// guarantees at most one OS unlock per guard, even when explicit unlock and
// deferred close race.
type guard[F File] struct {
	file     F
	logger   zerolog.Logger
	consumed atomic.Bool
}

// consume claims the single release slot. It returns true exactly once.
func (g *guard[F]) consume() bool {
	return g.consumed.CompareAndSwap(false, true)
}

func (g *guard[F]) unlock() error {
	if err := flock.Unlock(g.file.Fd()); err != nil {
		return fmt.Errorf("failed to unlock file: %w", err)
	}
	return nil
}

// File returns the wrapped handle for direct I/O. The handle remains locked;
// the guard retains the sole unlock capability.
func (g *guard[F]) File() F {
	return g.file
}

// Close releases the lock if it is still held, discarding any unlock error
// (optionally logging it, see WithLogger). It always returns nil, is safe
// to call repeatedly and after Unlock, and exists so a guard can sit in a
// defer without leaking a held lock when an error unwinds past the caller.
func (g *guard[F]) Close() error {
	if !g.consume() {
		return nil
	}
	if err := g.unlock(); err != nil {
		g.logger.Warn().Err(err).Msg("discarding unlock error on close")
	}
	return nil
}

// Lock is an owning guard: it wraps the handle that was passed to the
// acquiring operation and hands it back from Unlock. Created only by a
// successful acquisition.
type Lock[F File] struct {
	guard[F]
}

func newLock[F File](f F, o options) *Lock[F] {
	return &Lock[F]{guard[F]{file: f, logger: o.logger}}
}

// Unlock releases the lock and returns the wrapped handle, still open and
// usable for further I/O. The guard is consumed: a second call returns
// ErrAlreadyUnlocked and the zero handle without touching the OS lock.
//
// If the OS refuses the unlock, the handle is returned alongside the error
// so the caller keeps access to it; the OS-side lock state is whatever the
// OS reported, not assumed released.
func (l *Lock[F]) Unlock() (F, error) {
	if !l.consume() {
		var zero F
		return zero, ErrAlreadyUnlocked
	}
	if err := l.unlock(); err != nil {
		return l.file, err
	}
	return l.file, nil
}

// LockRef is a borrowing guard: it releases the lock in place and never
// assumes ownership of the handle, which stays with its original owner.
type LockRef[F File] struct {
	guard[F]
}

func newLockRef[F File](f F, o options) *LockRef[F] {
	return &LockRef[F]{guard[F]{file: f, logger: o.logger}}
}

// Unlock releases the lock. The guard is consumed: a second call returns
// ErrAlreadyUnlocked without touching the OS lock.
func (l *LockRef[F]) Unlock() error {
	if !l.consume() {
		return ErrAlreadyUnlocked
	}
	return l.unlock()
}
