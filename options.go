package filelock

import "github.com/rs/zerolog"

// Option configures a single lock operation.
type Option func(*options)

type options struct {
	dispatcher Dispatcher
	logger     zerolog.Logger
}

func newOptions(opts []Option) options {
	o := options{
		dispatcher: DefaultDispatcher(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDispatcher routes the blocking OS call through d instead of the
// default per-call goroutine dispatcher. Try variants never block and
// ignore this option.
func WithDispatcher(d Dispatcher) Option {
	return func(o *options) {
		if d != nil {
			o.dispatcher = d
		}
	}
}

// WithLogger attaches a logger to the operation and its resulting guard.
// The guard uses it to report unlock errors discarded by Close, which are
// otherwise silent. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
