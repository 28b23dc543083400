package delayed

import "github.com/romshark/delayed/internal/queue"

// Options configures a Scheduler.
type Options struct {
	TimeOffset   Duration
	TimeProvider TimeProvider
	Queue        QueueReadWriter
	Logger       Logger
	ErrorHandler func(error)
}

// NewOptions creates options with defaults.
// If no time provider is set the standard time package is used.
// If no queue is set delayed/internal/queue.Queue is used.
// If no error handler is set, Run reports failures to the logger,
// or to Printf if no logger is set either.
func NewOptions(opts ...Option) Options {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	if options.ErrorHandler == nil {
		l := options.Logger
		if l == nil {
			l = Printf
		}
		options.ErrorHandler = func(err error) {
			l.Printf("delayed: %v\n", err)
		}
	}
	if options.Logger == nil {
		options.Logger = defaultLogger
	}
	if options.TimeProvider == nil {
		options.TimeProvider = timeProvider{}
	}
	if options.Queue == nil {
		options.Queue = queue.New()
	}
	return options
}

// Option is for setting options.
type Option func(*Options)

// WithTimeOffset sets the initial time offset of the scheduler.
func WithTimeOffset(d Duration) Option {
	return func(o *Options) {
		o.TimeOffset = d
	}
}

// WithTimeProvider replaces the default time provider.
// A nil provider is ignored.
func WithTimeProvider(t TimeProvider) Option {
	return func(o *Options) {
		if t != nil {
			o.TimeProvider = t
		}
	}
}

// WithQueue replaces the default queue implementation.
// A nil queue is ignored.
func WithQueue(q QueueReadWriter) Option {
	return func(o *Options) {
		if q != nil {
			o.Queue = q
		}
	}
}

// WithLogger sets the logger the frame loop reports to.
// A nil logger is ignored.
func WithLogger(l Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithErrorHandler sets the function Run passes
// every error returned by Poll to.
// A nil handler is ignored.
func WithErrorHandler(h func(error)) Option {
	return func(o *Options) {
		if h != nil {
			o.ErrorHandler = h
		}
	}
}
