package purview

import "fmt"

// selectorKind tags a selector slot as value-style or reference-style.
type selectorKind uint8

const (
	selectorValue selectorKind = iota + 1
	selectorRef
)

// String returns a human-readable name for the selector kind.
func (k selectorKind) String() string {
	switch k {
	case selectorValue:
		return "value"
	case selectorRef:
		return "ref"
	default:
		return "unknown"
	}
}

// slot is one persistent selector record. Slots survive across evaluation
// passes; the comparison closures do not (they are re-captured each pass in
// declaration order, carrying the slot's stable index).
type slot struct {
	kind selectorKind

	// value is the cached derived value for value-kind slots, stored as
	// *D. It is replaced wholesale (pointer swap) when a notification
	// detects a change, so a reader holding the old pointer never
	// observes a torn update. nil for ref-kind slots.
	value any
}

// Handle is a per-observer selector registry bound to a store.
//
// A handle multiplexes any number of selector declarations onto a single raw
// store subscription. Observers obtain one via Attach and keep it for their
// whole lifetime; it is not recreated per evaluation pass.
type Handle[T any] struct {
	id    uint64
	store *Store[T]
	wake  func()

	// active is the shared teardown flag: flipped by Detach, observed by
	// the raw subscriber closure on the next notification.
	active bool

	// slots persist across passes: kind tags and cached values.
	slots []slot

	// arity is the declaration count established by the first completed
	// pass, or -1 until a second pass begins.
	arity int

	// started reports whether BeginPass has ever been called.
	started bool

	// declared counts declarations made in the current pass.
	declared int

	// valueChecks and refChecks are the per-pass comparison closures, in
	// declaration order. Cleared by BeginPass.
	valueChecks []func(next *T) bool
	refChecks   []func(prev, next *T) bool
}

// ID returns the unique identifier for this handle.
func (h *Handle[T]) ID() uint64 {
	return h.id
}

// Store returns the store this handle is bound to.
func (h *Handle[T]) Store() *Store[T] {
	return h.store
}

// Active reports whether the handle is still attached. It becomes false
// after Detach; the store prunes the underlying subscription lazily on the
// next transition.
func (h *Handle[T]) Active() bool {
	return h.active
}

// BeginPass starts a new evaluation pass: it discards the previous pass's
// comparison closures so the observer re-declares its selectors fresh. The
// underlying store subscription is untouched; subscribing is a one-time
// operation, not a per-pass one.
//
// BeginPass must be called exactly once per pass, before any declaration.
// It also validates the completed pass: once the first pass has established
// the selector count, any later pass that declared a different count panics
// with ErrSelectorOrder.
func (h *Handle[T]) BeginPass() {
	if h.started {
		if h.arity < 0 {
			h.arity = h.declared
		} else if h.declared != h.arity {
			panic(fmt.Errorf("%w: pass declared %d selectors, expected %d; selectors must be declared unconditionally and in the same order on every pass",
				ErrSelectorOrder, h.declared, h.arity))
		}
	}
	h.started = true
	h.declared = 0
	h.valueChecks = h.valueChecks[:0]
	h.refChecks = h.refChecks[:0]
}

// declare claims the next slot index for the current pass and validates its
// kind against prior passes. Reports whether the slot already existed.
func (h *Handle[T]) declare(kind selectorKind) (int, bool) {
	if !h.started {
		panic(fmt.Errorf("%w: call BeginPass before declaring selectors", ErrNoPass))
	}

	i := h.declared
	h.declared++

	if i < len(h.slots) {
		if h.slots[i].kind != kind {
			panic(fmt.Errorf("%w: selector %d was a %s selector on an earlier pass, now declared as %s; selectors must be declared unconditionally and in the same order on every pass",
				ErrSelectorOrder, i, h.slots[i].kind, kind))
		}
		return i, true
	}

	if h.arity >= 0 {
		panic(fmt.Errorf("%w: pass declared more than %d selectors; selectors must be declared unconditionally and in the same order on every pass",
			ErrSelectorOrder, h.arity))
	}

	h.slots = append(h.slots, slot{kind: kind})
	return i, false
}

// dispatch diffs the declared selectors against a state transition and wakes
// the observer at most once if anything changed.
//
// Value selectors run first and all of them run, so every changed cache is
// refreshed even after the pass is already known dirty. Reference selectors
// are skipped entirely once a value selector changed, and short-circuit on
// the first difference otherwise: one change is sufficient to wake.
func (h *Handle[T]) dispatch(prev, next *T) {
	if h.arity >= 0 && h.declared != h.arity {
		panic(fmt.Errorf("%w: observer declared %d selectors on its last pass, expected %d; selectors must be declared unconditionally and in the same order on every pass",
			ErrSelectorOrder, h.declared, h.arity))
	}

	dirty := false
	for _, check := range h.valueChecks {
		if check(next) {
			dirty = true
		}
	}
	if !dirty {
		for _, check := range h.refChecks {
			if check(prev, next) {
				dirty = true
				break
			}
		}
	}

	if dirty {
		h.store.markWoken()
		h.wake()
	}
}
