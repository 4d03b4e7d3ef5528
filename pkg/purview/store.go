package purview

import "time"

// SubscriberFunc is a raw store subscriber. It is invoked once per state
// transition with the previous and next snapshots and returns a keep-alive
// flag: returning false removes the subscriber from the store.
//
// Returning false is the only removal primitive at this layer. Higher layers
// translate "observer torn down" into "return false on the next
// notification" rather than mutating the subscriber list directly; see
// Attach and Handle.Detach.
type SubscriberFunc[T any] func(prev, next *T) bool

// Store holds the current and previous immutable snapshots of state T.
//
// Snapshots are shared by pointer: observers may retain the current or
// previous snapshot without copying T, because the store never mutates a
// snapshot in place. Every write installs a wholly new snapshot.
//
// A Store must be confined to a single goroutine of control. See the package
// documentation for the concurrency model.
type Store[T any] struct {
	current  *T
	previous *T
	subs     []SubscriberFunc[T]
	hooks    []Hook

	// depth is the notification nesting level, 1 at the outermost pass.
	depth int

	// woken counts observers woken during the innermost notification pass.
	woken int
}

// StoreOption configures a Store at construction time.
type StoreOption func(*storeConfig)

type storeConfig struct {
	hooks []Hook
}

// WithHook attaches an instrumentation hook to the store. Hooks observe
// every completed notification pass; see the instrument package for
// Prometheus and OpenTelemetry implementations.
func WithHook(h Hook) StoreOption {
	return func(c *storeConfig) {
		if h != nil {
			c.hooks = append(c.hooks, h)
		}
	}
}

// NewStore creates a store with the given initial state. Until the first
// write, the previous snapshot equals the current one.
func NewStore[T any](initial T, opts ...StoreOption) *Store[T] {
	var cfg storeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	state := &initial
	return &Store[T]{
		current:  state,
		previous: state,
		hooks:    cfg.hooks,
	}
}

// State returns the current snapshot. Cheap, never blocks.
//
// The returned pointer must be treated as read-only; it remains valid (and
// unchanged) even after later writes install newer snapshots.
func (s *Store[T]) State() *T {
	return s.current
}

// SetState installs state as the new current snapshot, moves the old current
// snapshot into previous, and runs a notification pass over all subscribers.
//
// SetState is reentrant: a subscriber may call SetState again from within
// its own notification. The nested write's notification pass completes
// before control returns to the outer pass, so remaining outer subscribers
// observe the final state rather than an intermediate one.
func (s *Store[T]) SetState(state T) {
	s.previous = s.current
	s.current = &state
	s.notify()
}

// Update applies fn to the current snapshot and installs its result as the
// new state. The argument is read-only; fn must return a fresh value rather
// than mutating through the pointer.
func (s *Store[T]) Update(fn func(*T) T) {
	s.SetState(fn(s.current))
}

// Subscribe appends a raw subscriber. There is no unsubscribe call;
// cancellation is the subscriber returning false from a notification.
func (s *Store[T]) Subscribe(fn SubscriberFunc[T]) {
	if fn == nil {
		return
	}
	s.subs = append(s.subs, fn)
}

// SubscriberCount returns the number of live raw subscribers. Subscribers
// that returned false are pruned during notification, so the count reflects
// lazily observed teardown.
func (s *Store[T]) SubscriberCount() int {
	return len(s.subs)
}

// notify runs one notification pass: the subscriber list is split off before
// iterating and survivors are merged back afterward, so subscribers added
// during the pass are not notified of the transition that triggered them but
// are present for the next one.
//
// previous and current are read per callback, not snapshotted before the
// loop: after a reentrant write, remaining subscribers of this pass see the
// latest snapshots.
func (s *Store[T]) notify() {
	subs := s.subs
	s.subs = nil

	s.depth++
	start := time.Now()
	saved := s.woken
	s.woken = 0

	kept := subs[:0]
	for _, fn := range subs {
		if fn(s.previous, s.current) {
			kept = append(kept, fn)
		}
	}

	stats := TransitionStats{
		Start:    start,
		Duration: time.Since(start),
		Depth:    s.depth,
		Notified: len(subs),
		Pruned:   len(subs) - len(kept),
		Woken:    s.woken,
	}
	s.woken = saved
	s.depth--

	// Subscribers added during the pass come first, then survivors.
	s.subs = append(s.subs, kept...)

	for _, h := range s.hooks {
		h.ObserveTransition(stats)
	}
}

// markWoken records that an observer was woken during the current pass.
func (s *Store[T]) markWoken() {
	s.woken++
}
