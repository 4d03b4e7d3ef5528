package purview

import "fmt"

// Selector declarations are free functions rather than methods because Go
// methods cannot introduce type parameters. Every declaration takes the
// observer's handle explicitly; there is no ambient "current observer"
// lookup.

// Map declares a value selector and returns its derived value.
//
// On the first pass the value is computed from the current state and cached.
// On later passes Map returns the cached value without recomputing: the
// recomputation happens inside the notification diff, which refreshes the
// cache only when the derived value actually changed. Repeated declarations
// within one pass (without an intervening notification) are therefore
// idempotent and cheap.
//
// Equality uses == for common comparable types and reflect.DeepEqual
// otherwise; use MapEq to supply a custom comparison. NaN compares unequal
// to itself under both, so a NaN-valued selection wakes the observer on
// every transition; select NaN-able floats through MapEq with a NaN-aware
// comparison.
//
// If the derived value is reachable by pointer inside the state itself,
// prefer MapRef, which avoids the cache entirely.
func Map[T, D any](h *Handle[T], sel func(*T) D) D {
	return MapEq(h, sel, nil)
}

// MapEq is Map with an explicit equality function. A nil eq falls back to
// the default equality.
func MapEq[T, D any](h *Handle[T], sel func(*T) D, eq func(D, D) bool) D {
	if eq == nil {
		eq = defaultEquals[D]
	}

	i, exists := h.declare(selectorValue)
	if !exists {
		v := sel(h.store.current)
		h.slots[i].value = &v
	}

	cached, ok := h.slots[i].value.(*D)
	if !ok {
		panic(fmt.Errorf("%w: selector %d holds a cached %T, redeclared with value type %T; selectors must be declared unconditionally and in the same order on every pass",
			ErrSelectorOrder, i, h.slots[i].value, (*D)(nil)))
	}

	h.valueChecks = append(h.valueChecks, func(next *T) bool {
		cur := h.slots[i].value.(*D)
		nv := sel(next)
		if eq(*cur, nv) {
			return false
		}
		h.slots[i].value = &nv
		return true
	})

	return *cached
}

// MapRef declares a reference selector and returns a pointer into the
// current snapshot.
//
// Nothing is cached: on notification the selector is re-invoked on both the
// previous and next snapshots and the pointees are compared. The returned
// pointer stays valid for as long as the observer retains it, because
// snapshots are never mutated in place; its value is simply that of the
// snapshot it was selected from.
func MapRef[T, R any](h *Handle[T], sel func(*T) *R) *R {
	return MapRefEq(h, sel, nil)
}

// MapRefEq is MapRef with an explicit equality function over the pointee.
// A nil eq falls back to the default equality.
func MapRefEq[T, R any](h *Handle[T], sel func(*T) *R, eq func(R, R) bool) *R {
	if eq == nil {
		eq = defaultEquals[R]
	}

	h.declare(selectorRef)
	h.refChecks = append(h.refChecks, func(prev, next *T) bool {
		return !eq(*sel(prev), *sel(next))
	})

	return sel(h.store.current)
}

// Watch declares a value selector without returning its value: a pure "wake
// me if this changes" declaration. Comparison semantics are identical to
// Map, including the cached derived value.
func Watch[T, D any](h *Handle[T], sel func(*T) D) {
	MapEq(h, sel, nil)
}

// WatchRef declares a reference selector without returning the reference.
// Comparison semantics are identical to MapRef.
func WatchRef[T, R any](h *Handle[T], sel func(*T) *R) {
	MapRefEq(h, sel, nil)
}
