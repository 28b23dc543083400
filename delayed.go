package delayed

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	equeue "github.com/eapache/queue"
	"github.com/segmentio/ksuid"
)

type (
	Time     = time.Time
	Duration = time.Duration
)

const (
	Nanosecond  = time.Nanosecond
	Microsecond = time.Microsecond
	Millisecond = time.Millisecond
	Second      = time.Second
	Minute      = time.Minute
	Hour        = time.Hour
)

type QueueReader interface {
	Has(ksuid.KSUID) bool
	Len() int
	Scan(
		after ksuid.KSUID,
		fn func(ksuid.KSUID, Time, func()) bool,
	) (afterFound bool)
}

// QueueWriter must keep actions ordered by due time
// and actions with equal due times in the order they were pushed.
type QueueWriter interface {
	Push(id ksuid.KSUID, due Time, fn func())
	Front() (ksuid.KSUID, Time, func())
	Remove(ksuid.KSUID) (ok bool)
}

type QueueReadWriter interface {
	QueueReader
	QueueWriter
}

// DefaultScheduler is the default Scheduler
// used by Insert, Poll, Now, AdvanceTime,
// AdvanceToNext, Len, Offset and Scan.
var DefaultScheduler = New()

// Now returns the current time of the scheduler considering the offset.
func Now() Time {
	return DefaultScheduler.Now()
}

// Insert schedules fn for execution in the given duration.
// fn is executed by the first call to Poll at or after its fire instant.
func Insert(in Duration, fn func()) (Action, error) {
	return DefaultScheduler.Insert(in, fn)
}

// Poll executes all actions that are due.
func Poll() error {
	return DefaultScheduler.Poll()
}

// AdvanceTime advances the current time by the given duration.
func AdvanceTime(by Duration) (newOffset Duration) {
	return DefaultScheduler.AdvanceTime(by)
}

// AdvanceToNext advances the current time to the next action.
// Does nothing if no actions are pending.
func AdvanceToNext() (newOffset, advancedBy Duration) {
	return DefaultScheduler.AdvanceToNext()
}

// Len returns the length of the queue (number of pending actions).
func Len() int {
	return DefaultScheduler.Len()
}

// Offset returns the scheduler's time offset.
func Offset() Duration {
	return DefaultScheduler.Offset()
}

// Scan scans all actions after the given action executing fn for each
// until either the end of the queue is reached or fn returns false.
// Starts from the front of the queue if after is zero.
// Returns false if after doesn't exist, otherwise returns true.
func Scan(after Action, fn func(a Action, due Time, actionFn func()) bool) (ok bool) {
	return DefaultScheduler.Scan(after, fn)
}

// New creates a new scheduler.
func New(opts ...Option) *Scheduler {
	o := NewOptions(opts...)
	return &Scheduler{
		provider:   o.TimeProvider,
		queue:      o.Queue,
		logger:     o.Logger,
		onError:    o.ErrorHandler,
		timeOffset: o.TimeOffset,
	}
}

// Scheduler is a frame-driven deferred action scheduler.
type Scheduler struct {
	provider   TimeProvider
	logger     Logger
	onError    func(error)
	lock       sync.RWMutex
	timeOffset Duration
	queue      QueueReadWriter
}

// Now returns the current time of the scheduler considering the offset.
func (s *Scheduler) Now() Time {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.now()
}

// Insert schedules fn for execution in the given duration.
// fn is executed by the first call to Poll at or after its fire instant,
// which is fixed to now+in. Negative durations are treated as zero.
// Even with a zero duration fn is never executed by Insert itself.
//
// Returns an error wrapping ErrAllocation if the action couldn't be stored.
func (s *Scheduler) Insert(in Duration, fn func()) (Action, error) {
	if fn == nil {
		return Action{}, ErrNilCallback
	}
	if in < 0 {
		in = 0
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	due := s.now().Add(in)
	id, err := newActionID(due)
	if err != nil {
		return Action{}, fmt.Errorf(
			"%w: generating unique KSUID: %w", ErrAllocation, err,
		)
	}

	if s.queue.Has(ksuid.KSUID(id)) {
		return Action{}, fmt.Errorf(
			"%w: identifier collision: %s", ErrAllocation, id.String(),
		)
	}

	s.queue.Push(ksuid.KSUID(id), due, fn)
	return id, nil
}

// Poll executes all actions whose fire instant is at or before
// the current time, read once when Poll is called.
// Actions are executed in order of their fire instant,
// actions sharing a fire instant in the order they were inserted.
// Actions inserted while Poll is running are left for the next call.
//
// A panicking callback doesn't prevent the remaining due actions
// from being executed. Poll returns the joined *CallbackError
// of all panicked callbacks once every due action was executed.
func (s *Scheduler) Poll() error {
	due := s.takeDue()
	if due.Length() < 1 {
		return nil
	}

	var errs []error
	for due.Length() > 0 {
		if err := s.run(due.Remove().(dueAction)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AdvanceTime advances the current time by the given duration.
// Actions that become due are executed by the next call to Poll.
func (s *Scheduler) AdvanceTime(by Duration) (newOffset Duration) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.timeOffset += by
	return s.timeOffset
}

// AdvanceToNext advances the current time to the fire instant
// of the next action, which is then executed by the next call to Poll.
// Does nothing if no actions are pending or the next action is already due.
func (s *Scheduler) AdvanceToNext() (newOffset, advancedBy Duration) {
	s.lock.Lock()
	defer s.lock.Unlock()

	_, due, fn := s.queue.Front()
	if fn == nil {
		return s.timeOffset, 0
	}

	by := due.Sub(s.now())
	if by < 1 {
		return s.timeOffset, 0
	}
	s.timeOffset += by

	return s.timeOffset, by
}

// Offset returns the scheduler's time offset.
func (s *Scheduler) Offset() Duration {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.timeOffset
}

// Len returns the length of the queue (number of pending actions).
func (s *Scheduler) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.queue.Len()
}

// Scan scans all actions after the given action executing fn for each
// until either the end of the queue is reached or fn returns false.
// Starts from the front of the queue if after is zero.
// Returns false if after doesn't exist, otherwise returns true.
// fn must not call methods of s.
func (s *Scheduler) Scan(
	after Action,
	fn func(a Action, due Time, actionFn func()) bool,
) (ok bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.queue.Scan(
		ksuid.KSUID(after),
		func(id ksuid.KSUID, due Time, actionFn func()) bool {
			return fn(Action(id), due, actionFn)
		},
	)
}

// takeDue removes all actions that are due from the queue
// and returns them in execution order.
func (s *Scheduler) takeDue() *equeue.Queue {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := s.now()
	due := equeue.New()
	for {
		id, at, fn := s.queue.Front()
		if fn == nil || at.After(now) {
			break
		}
		s.queue.Remove(id)
		due.Add(dueAction{ID: Action(id), Due: at, Fn: fn})
	}
	return due
}

// run executes a's callback recovering from panics.
func (s *Scheduler) run(a dueAction) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &CallbackError{
				Action: a.ID,
				Due:    a.Due,
				Value:  v,
				Stack:  debug.Stack(),
			}
		}
	}()
	a.Fn()
	return nil
}

// now returns the current time considering the offset.
func (s *Scheduler) now() Time {
	return s.provider.Now().Add(s.timeOffset)
}

type dueAction struct {
	ID  Action
	Due Time
	Fn  func()
}

// Seconds converts fractional seconds to a Duration
// truncated to whole milliseconds.
func Seconds(s float64) Duration {
	return Duration(int64(s*1000)) * Millisecond
}

// newActionID generates a new unique identifier.
func newActionID(tm Time) (Action, error) {
	k, err := ksuid.NewRandomWithTime(tm)
	if err != nil {
		return Action{}, err
	}
	return Action(k), nil
}

// Action is a unique action identifier.
type Action ksuid.KSUID

// String returns the stringified identifier.
func (id Action) String() string {
	return ksuid.KSUID(id).String()
}
