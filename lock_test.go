//go:build unix

package filelock_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	filelock "github.com/mrz1836/go-filelock"
)

func TestTryLockExclusive_Contention(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	h1 := openTestFile(t, tmpDir, "contend.lock")
	h2 := openTestFile(t, tmpDir, "contend.lock")

	lk, ok, err := filelock.TryLockExclusive(h1)
	require.NoError(t, err)
	require.True(t, ok)

	// Any attempt through the second handle observes would-block, not an
	// error, for both modes.
	blocked, ok, err := filelock.TryLockExclusive(h2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, blocked)

	blockedShared, ok, err := filelock.TryLockShared(h2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, blockedShared)

	_, err = lk.Unlock()
	require.NoError(t, err)

	// Release makes the second handle's attempt succeed.
	lk2, ok, err := filelock.TryLockExclusive(h2)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = lk2.Unlock()
	require.NoError(t, err)
}

func TestTryLockShared_MultipleHolders(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	h1 := openTestFile(t, tmpDir, "shared.lock")
	h2 := openTestFile(t, tmpDir, "shared.lock")
	h3 := openTestFile(t, tmpDir, "shared.lock")

	lk1, ok, err := filelock.TryLockShared(h1)
	require.NoError(t, err)
	require.True(t, ok)

	lk2, ok, err := filelock.TryLockShared(h2)
	require.NoError(t, err)
	require.True(t, ok, "second shared lock should coexist with the first")

	_, ok, err = filelock.TryLockExclusive(h3)
	require.NoError(t, err)
	assert.False(t, ok, "exclusive attempt should observe would-block while shared locks are held")

	_, err = lk1.Unlock()
	require.NoError(t, err)
	_, err = lk2.Unlock()
	require.NoError(t, err)

	lk3, ok, err := filelock.TryLockExclusive(h3)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = lk3.Unlock()
	require.NoError(t, err)
}

func TestLockExclusive(t *testing.T) {
	t.Parallel()

	t.Run("acquires an uncontended lock", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		f := openTestFile(t, tmpDir, "free.lock")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		lk, err := filelock.LockExclusive(ctx, f)
		require.NoError(t, err)

		got, err := lk.Unlock()
		require.NoError(t, err)
		require.Same(t, f, got)
	})

	t.Run("waits until the holder releases", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		h1 := openTestFile(t, tmpDir, "wait.lock")
		h2 := openTestFile(t, tmpDir, "wait.lock")

		holder, ok, err := filelock.TryLockExclusive(h1)
		require.NoError(t, err)
		require.True(t, ok)

		type outcome struct {
			lk  *filelock.Lock[*os.File]
			err error
		}
		done := make(chan outcome, 1)
		go func() {
			lk, lockErr := filelock.LockExclusive(context.Background(), h2)
			done <- outcome{lk: lk, err: lockErr}
		}()

		// The waiter must stay suspended while the lock is held.
		select {
		case res := <-done:
			t.Fatalf("blocking lock completed while held: %+v", res)
		case <-time.After(100 * time.Millisecond):
		}

		_, err = holder.Unlock()
		require.NoError(t, err)

		select {
		case res := <-done:
			require.NoError(t, res.err)
			_, err = res.lk.Unlock()
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("blocking lock did not complete after release")
		}
	})

	t.Run("returns the context error when abandoned", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		h1 := openTestFile(t, tmpDir, "cancel.lock")
		h2 := openTestFile(t, tmpDir, "cancel.lock")

		holder, ok, err := filelock.TryLockExclusive(h1)
		require.NoError(t, err)
		require.True(t, ok)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		lk, err := filelock.LockExclusive(ctx, h2)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Nil(t, lk)

		// The abandoned OS call is still in flight on its worker and may
		// acquire the lock once the holder releases; h2's cleanup close
		// releases it again. See the package comment.
		_, err = holder.Unlock()
		require.NoError(t, err)
	})
}

func TestLockShared_Blocking(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	h1 := openTestFile(t, tmpDir, "bshared.lock")
	h2 := openTestFile(t, tmpDir, "bshared.lock")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Two blocking shared acquisitions coexist.
	lk1, err := filelock.LockShared(ctx, h1)
	require.NoError(t, err)
	lk2, err := filelock.LockSharedRef(ctx, h2)
	require.NoError(t, err)

	_, err = lk1.Unlock()
	require.NoError(t, err)
	require.NoError(t, lk2.Unlock())
}

func TestLockExclusive_WithPool(t *testing.T) {
	t.Parallel()

	p := filelock.NewPool(1)
	defer func() {
		require.NoError(t, p.Close())
	}()

	tmpDir := t.TempDir()
	f := openTestFile(t, tmpDir, "pool.lock")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lk, err := filelock.LockExclusive(ctx, f, filelock.WithDispatcher(p))
	require.NoError(t, err)

	_, err = lk.Unlock()
	require.NoError(t, err)
}
