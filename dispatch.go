package filelock

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// Dispatcher runs blocking OS lock calls off the caller's goroutine. The
// blocking acquisition path is parametric over this facility: any runtime
// that can execute a function on a blocking-capable worker can serve.
//
// Dispatch returns an error only when the dispatcher itself can no longer
// accept work. That is an environment fault, not a lock-domain outcome, and
// the lock operations treat it as fatal rather than misreporting it as a
// lock failure.
type Dispatcher interface {
	Dispatch(fn func()) error
}

// goDispatcher runs each call on its own goroutine. It never fails.
type goDispatcher struct{}

func (goDispatcher) Dispatch(fn func()) error {
	go fn()
	return nil
}

// DefaultDispatcher returns the dispatcher used when an operation is given
// none: one goroutine per blocking call. The Go runtime already parks
// syscall-blocked goroutines on dedicated threads, so an unbounded
// dispatcher is safe for typical workloads; use a Pool to cap the number
// of concurrently blocked threads.
func DefaultDispatcher() Dispatcher {
	return goDispatcher{}
}

// Pool is a bounded Dispatcher backed by a fixed set of worker goroutines.
// Dispatch blocks until a worker is free, capping how many OS threads can
// sit inside blocking lock syscalls at once.
type Pool struct {
	tasks chan func()
	done  chan struct{}
	group *errgroup.Group
	once  sync.Once
}

// NewPool starts a pool with n workers. Values below one are raised to one.
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}

	p := &Pool{
		tasks: make(chan func()),
		done:  make(chan struct{}),
		group: &errgroup.Group{},
	}
	for i := 0; i < n; i++ {
		p.group.Go(func() error {
			for {
				select {
				case <-p.done:
					return nil
				case fn := <-p.tasks:
					fn()
				}
			}
		})
	}
	return p
}

// Dispatch hands fn to an idle worker, blocking until one accepts it.
// Once Dispatch returns nil the task is guaranteed to run. After Close it
// returns ErrDispatcherClosed.
func (p *Pool) Dispatch(fn func()) error {
	select {
	case <-p.done:
		return ErrDispatcherClosed
	default:
	}

	select {
	case p.tasks <- fn:
		return nil
	case <-p.done:
		return ErrDispatcherClosed
	}
}

// Close stops accepting work and waits for in-flight calls to finish.
// Blocking lock calls already dispatched run to completion; a call that
// acquired its lock after its waiter gave up still holds it until the
// handle is closed. Close is safe to call multiple times.
func (p *Pool) Close() error {
	p.once.Do(func() {
		close(p.done)
	})
	return p.group.Wait()
}

var _ Dispatcher = (*Pool)(nil)
