// Package stopwatch measures time intervals and optionally
// reports them when the measured scope ends:
//
//	w := stopwatch.Start(stopwatch.WithLabel("load level"), stopwatch.WithReport())
//	defer w.Stop() // prints something like "0.100132 <- load level"
package stopwatch

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Stopwatch measures the time passed since it was started or last reset.
type Stopwatch struct {
	opts    Options
	lock    sync.Mutex
	start   time.Time
	stopped bool
}

// Start creates a stopwatch started at the current time.
func Start(opts ...Option) *Stopwatch {
	o := NewOptions(opts...)
	return &Stopwatch{
		opts:  o,
		start: o.Clock.Now(),
	}
}

// Measure executes fn and reports the time it took under the given label.
// The report is written even if fn panics.
// The returned duration is the one reported.
func Measure(label string, fn func(), opts ...Option) time.Duration {
	o := make([]Option, 0, len(opts)+2)
	o = append(o, opts...)
	o = append(o, WithLabel(label), WithReport())
	w := Start(o...)

	var elapsed *time.Duration
	defer func() { w.stop(elapsed) }()
	fn()

	d := w.Elapsed()
	elapsed = &d
	return d
}

// Label returns the stopwatch's label.
func (w *Stopwatch) Label() string { return w.opts.Label }

// Reset restarts the stopwatch at the current time
// discarding the time measured so far.
// The start time never moves backwards, even if the clock does.
func (w *Stopwatch) Reset() {
	now := w.opts.Clock.Now()

	w.lock.Lock()
	defer w.lock.Unlock()

	if now.After(w.start) {
		w.start = now
	}
}

// Elapsed returns the time passed since the stopwatch was started.
// Never negative.
func (w *Stopwatch) Elapsed() time.Duration {
	now := w.opts.Clock.Now()

	w.lock.Lock()
	defer w.lock.Unlock()

	if d := now.Sub(w.start); d > 0 {
		return d
	}
	return 0
}

// Seconds returns Elapsed in fractional seconds
// with microsecond resolution.
func (w *Stopwatch) Seconds() float64 {
	return seconds(w.Elapsed())
}

// String returns the report line "<seconds> <- <label>".
func (w *Stopwatch) String() string {
	return w.line(w.Elapsed())
}

func (w *Stopwatch) line(d time.Duration) string {
	return strconv.FormatFloat(seconds(d), 'g', 6, 64) + " <- " + w.opts.Label
}

func seconds(d time.Duration) float64 {
	return d.Truncate(time.Microsecond).Seconds()
}

// Stop ends the measured scope writing the report line to the output
// if reporting is enabled. Only the first call has an effect,
// so Stop can both be deferred and called explicitly.
func (w *Stopwatch) Stop() { w.stop(nil) }

// stop reports elapsed if not nil, otherwise reads the clock.
func (w *Stopwatch) stop(elapsed *time.Duration) {
	w.lock.Lock()
	if w.stopped {
		w.lock.Unlock()
		return
	}
	w.stopped = true
	w.lock.Unlock()

	if !w.opts.Report {
		return
	}
	if elapsed == nil {
		d := w.Elapsed()
		elapsed = &d
	}
	_, _ = fmt.Fprintln(w.opts.Output, w.line(*elapsed))
}
