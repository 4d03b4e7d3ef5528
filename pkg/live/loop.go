package live

import (
	"log/slog"
	"runtime/debug"
	"sync/atomic"
)

// dispatchBuffer is the loop's queue capacity. Dispatches beyond it are
// dropped rather than blocking, because a blocked Dispatch from the loop
// goroutine itself would deadlock.
const dispatchBuffer = 256

// Loop is a single-goroutine dispatch loop. All store access owned by a
// Server happens on its loop.
type Loop struct {
	fns    chan func()
	done   chan struct{}
	closed atomic.Bool
	log    *slog.Logger
}

func newLoop(log *slog.Logger) *Loop {
	l := &Loop{
		fns:  make(chan func(), dispatchBuffer),
		done: make(chan struct{}),
		log:  log,
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	for {
		select {
		case fn := <-l.fns:
			l.execute(fn)
		case <-l.done:
			return
		}
	}
}

// execute runs a dispatched function, recovering panics so one bad observer
// cannot take the loop down with it.
func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("panic in dispatched function",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Dispatch queues fn to run on the loop goroutine. It never blocks: when the
// queue is full or the loop is closed, fn is dropped and Dispatch reports
// false. Safe to call from any goroutine, including the loop itself.
func (l *Loop) Dispatch(fn func()) bool {
	if l.closed.Load() {
		return false
	}
	select {
	case l.fns <- fn:
		return true
	default:
		l.log.Warn("dispatch queue full, dropping work")
		return false
	}
}

// Call runs fn on the loop goroutine and waits for it to finish. Must not be
// called from the loop goroutine itself. Reports false if the loop is closed
// or full.
func (l *Loop) Call(fn func()) bool {
	ch := make(chan struct{})
	if !l.Dispatch(func() {
		defer close(ch)
		fn()
	}) {
		return false
	}
	<-ch
	return true
}

// Close stops the loop. Queued work that has not started is discarded.
func (l *Loop) Close() {
	if !l.closed.Swap(true) {
		close(l.done)
	}
}
