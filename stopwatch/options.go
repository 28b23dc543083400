package stopwatch

import (
	"io"
	"os"
)

// Options is common options
type Options struct {
	Label  string
	Report bool
	Output io.Writer
	Clock  Clock
}

// NewOptions creates options with defaults.
func NewOptions(opts ...Option) Options {
	options := Options{
		Output: os.Stderr,
		Clock:  systemClock{},
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// Option is for setting options.
type Option func(*Options)

// WithLabel sets the label printed after the measured time.
func WithLabel(label string) Option {
	return func(o *Options) {
		o.Label = label
	}
}

// WithReport makes Stop write the measured time to the output.
func WithReport() Option {
	return func(o *Options) {
		o.Report = true
	}
}

// WithOutput sets the writer reports are written to, os.Stderr by default.
// A nil writer is ignored.
func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		if w != nil {
			o.Output = w
		}
	}
}

// WithClock replaces the system clock.
// A nil clock is ignored.
func WithClock(c Clock) Option {
	return func(o *Options) {
		if c != nil {
			o.Clock = c
		}
	}
}
