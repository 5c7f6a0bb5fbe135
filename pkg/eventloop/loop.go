package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// ErrClosed is returned by Do once the loop is closed.
var ErrClosed = errors.New("eventloop: closed")

// Loop executes posted tasks one at a time.
//
// A Loop is used in one of two modes: Run drives it on a dedicated
// goroutine, or (in tests and one-shot tools) the owner calls Drain and
// Advance from a single goroutine. The two modes must not be mixed.
type Loop struct {
	clock  Clock
	logger *slog.Logger

	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}

	running atomic.Bool
	closed  atomic.Bool
	done    chan struct{}
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used to report panicking tasks.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// New creates a Loop that schedules timers on clock.
func New(clock Clock, opts ...Option) *Loop {
	if clock == nil {
		clock = RealClock{}
	}
	l := &Loop{
		clock:  clock,
		logger: slog.Default().With("component", "eventloop"),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Clock returns the loop's clock.
func (l *Loop) Clock() Clock {
	return l.clock
}

// Post queues fn to run on the loop. Posting to a closed loop is a no-op.
// Post is safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	if fn == nil || l.closed.Load() {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Timer is a callback scheduled with AfterFunc.
type Timer struct {
	stopped atomic.Bool
	stopper Stopper
}

// Stop cancels the timer. It reports whether the callback was prevented
// from running.
func (t *Timer) Stop() bool {
	if t.stopped.Swap(true) {
		return false
	}
	if t.stopper != nil {
		t.stopper.Stop()
	}
	return true
}

// AfterFunc runs fn on the loop once d has elapsed on the loop's clock.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Timer {
	t := &Timer{}
	t.stopper = l.clock.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped.Swap(true) {
				return
			}
			fn()
		})
	})
	return t
}

// Run executes tasks until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return fmt.Errorf("eventloop: already running")
	}
	defer l.running.Store(false)

	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-l.wake:
		}
	}
}

// Running reports whether Run is executing.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Drain runs queued tasks, including tasks they post, until the queue is
// empty. It reports how many tasks ran.
func (l *Loop) Drain() int {
	n := 0
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			return n
		}
		fn := l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		l.mu.Unlock()

		l.safeExecute(fn)
		n++
	}
}

// Do runs fn on the loop and waits for it to finish. When the loop is not
// running, fn and everything queued before it run on the caller's
// goroutine. Do returns ErrClosed, without running fn, on a closed loop.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	if l.closed.Load() {
		return ErrClosed
	}
	if !l.running.Load() {
		l.Post(fn)
		l.Drain()
		return nil
	}

	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	}
}

// Advance moves a ManualClock forward by d. Each due timer fires at its
// own deadline and the queue is drained before the next timer is
// considered, so callbacks that schedule further timers see the time
// they ran at. Advance panics if the loop's clock is not a ManualClock.
func (l *Loop) Advance(d time.Duration) {
	mc, ok := l.clock.(*ManualClock)
	if !ok {
		panic("eventloop: Advance requires a ManualClock")
	}
	target := mc.Now().Add(d)
	l.Drain()
	for mc.fireNext(target) {
		l.Drain()
	}
	mc.setNow(target)
	l.Drain()
}

// Close stops Run and discards queued tasks. Close is idempotent.
func (l *Loop) Close() {
	if l.closed.Swap(true) {
		return
	}
	close(l.done)
	l.mu.Lock()
	l.tasks = nil
	l.mu.Unlock()
}

// safeExecute runs fn, logging instead of propagating a panic so one
// faulty callback cannot stop the page.
func (l *Loop) safeExecute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
