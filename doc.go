// Package filelock provides advisory, whole-file locking (shared or
// exclusive) for file-like handles, with blocking and non-blocking entry
// points and guard objects that release the lock deterministically.
//
// Locks are advisory: they coordinate only with other cooperating lock
// holders and are not a substitute for in-process synchronization. The OS
// is the sole arbiter of ordering among contending handles; no additional
// queuing or fairness is imposed. On POSIX systems advisory locks are
// per-open-handle, not per-process, so two handles to the same file within
// one process do contend with each other.
//
// The non-blocking Try variants are safe to call from any goroutine and
// report "someone else holds this lock" as a distinct would-block outcome,
// never as an error. The blocking variants run the underlying OS call on a
// blocking-capable worker supplied by a Dispatcher and suspend the calling
// goroutine until it returns.
//
// Successful acquisition produces a guard. Lock owns the handle it wraps
// and hands it back from Unlock; LockRef releases in place, leaving the
// handle with its original owner. Either way the guard issues at most one
// OS unlock, whether released explicitly via Unlock or implicitly via a
// deferred Close:
//
//	f, _ := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
//	lk, ok, err := filelock.TryLockExclusive(f)
//	if err != nil {
//	    // hard OS failure
//	}
//	if !ok {
//	    // lock held elsewhere; retry, wait, or abandon
//	}
//	defer lk.Close()
//
// Known limitation: abandoning a blocking acquisition (context cancellation
// or a discarded result) does not cancel the in-flight OS call. The call
// runs to completion on its worker and may acquire the lock even though no
// guard exists to represent it; the lock is then held until the handle is
// closed. Callers that cancel a blocking acquisition should close the
// handle they passed in.
package filelock
