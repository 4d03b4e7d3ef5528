package purview

// Attach binds an observer to a store and returns its handle.
//
// Exactly one raw store subscription is created per handle, no matter how
// many selectors the observer later declares: the handle multiplexes them
// all onto that single subscription. Attach is called once when the observer
// becomes live, not once per evaluation pass.
//
// wake is the observer's wake callback: a zero-argument function that
// schedules a future evaluation pass. It is called at most once per state
// transition, and never again after Detach. It must not evaluate
// synchronously from inside the callback; evaluation during a notification
// pass would mutate selector lists mid-diff.
func Attach[T any](store *Store[T], wake func()) *Handle[T] {
	if store == nil {
		panic("purview: Attach called with nil store")
	}
	if wake == nil {
		panic("purview: Attach called with nil wake callback")
	}

	h := &Handle[T]{
		id:     nextID(),
		store:  store,
		wake:   wake,
		active: true,
		arity:  -1,
	}

	store.Subscribe(func(prev, next *T) bool {
		if !h.active {
			return false
		}
		h.dispatch(prev, next)
		return true
	})

	return h
}

// Detach tears the observer down. The teardown is two-phase: Detach only
// flips the handle's active flag; the raw subscriber observes the flag on
// the next notification, does no work, and returns false so the store prunes
// it. The subscriber list is never mutated from inside Detach, which keeps
// teardown safe even when it happens while the store is mid-notification
// over the very list containing this entry.
//
// Detaching an already-detached handle is a no-op.
func (h *Handle[T]) Detach() {
	h.active = false
}
