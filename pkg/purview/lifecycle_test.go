package purview

import (
	"testing"
)

func TestDetachStopsWakes(t *testing.T) {
	store := NewStore(appState{Count: 0})
	o := newTestObserver(t, store)

	o.handle.BeginPass()
	Map(o.handle, func(s *appState) int { return s.Count })

	store.SetState(appState{Count: 1})
	if o.wakes != 1 {
		t.Fatalf("expected 1 wake before detach, got %d", o.wakes)
	}

	o.handle.Detach()

	store.SetState(appState{Count: 2})
	store.SetState(appState{Count: 3})
	if o.wakes != 1 {
		t.Errorf("expected no wakes after detach, got %d", o.wakes)
	}
}

func TestDetachPrunesSubscriptionLazily(t *testing.T) {
	store := NewStore(appState{})
	o := newTestObserver(t, store)

	if store.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber after attach, got %d", store.SubscriberCount())
	}

	o.handle.Detach()

	// Teardown is advisory: the entry stays until the next transition.
	if store.SubscriberCount() != 1 {
		t.Errorf("expected lazy removal, subscriber count dropped to %d immediately", store.SubscriberCount())
	}

	store.SetState(appState{Count: 1})
	if store.SubscriberCount() != 0 {
		t.Errorf("expected subscriber pruned after transition, got %d", store.SubscriberCount())
	}
}

func TestDoubleDetachIsNoOp(t *testing.T) {
	store := NewStore(appState{})
	o := newTestObserver(t, store)

	o.handle.Detach()
	o.handle.Detach()

	if o.handle.Active() {
		t.Error("expected handle to be inactive")
	}

	store.SetState(appState{Count: 1})
	if o.wakes != 0 {
		t.Errorf("expected no wakes, got %d", o.wakes)
	}
}

func TestDetachDuringNotification(t *testing.T) {
	store := NewStore(appState{Count: 0})

	// Observer b is detached by observer a's wake callback, while the
	// store is mid-iteration over the subscriber list containing b.
	var a, b *testObserver
	b = &testObserver{}
	a = &testObserver{}
	a.handle = Attach(store, func() {
		a.wakes++
		b.handle.Detach()
	})
	b.handle = Attach(store, func() { b.wakes++ })

	a.handle.BeginPass()
	Map(a.handle, func(s *appState) int { return s.Count })
	b.handle.BeginPass()
	Map(b.handle, func(s *appState) int { return s.Count })

	store.SetState(appState{Count: 1})

	if a.wakes != 1 {
		t.Errorf("expected a woken once, got %d", a.wakes)
	}
	// b was detached during the same pass, before its own entry was
	// visited, so it is skipped and pruned in one go.
	if b.wakes != 0 {
		t.Errorf("expected b not to be woken after detach, got %d", b.wakes)
	}
	if store.SubscriberCount() != 1 {
		t.Errorf("expected only a's subscription to survive, got %d", store.SubscriberCount())
	}
}

func TestReattachAfterDetach(t *testing.T) {
	store := NewStore(appState{Count: 0})
	o := newTestObserver(t, store)

	o.handle.BeginPass()
	Map(o.handle, func(s *appState) int { return s.Count })
	o.handle.Detach()
	store.SetState(appState{Count: 1})

	// A new observer identity gets a fresh handle and registry.
	o2 := newTestObserver(t, store)
	o2.handle.BeginPass()
	Map(o2.handle, func(s *appState) int { return s.Count })

	store.SetState(appState{Count: 2})

	if o.wakes != 0 {
		t.Errorf("expected detached observer to stay silent, got %d", o.wakes)
	}
	if o2.wakes != 1 {
		t.Errorf("expected reattached observer woken once, got %d", o2.wakes)
	}
}

func TestHandleIDsAreUnique(t *testing.T) {
	store := NewStore(appState{})
	a := Attach(store, func() {})
	b := Attach(store, func() {})

	if a.ID() == b.ID() {
		t.Errorf("expected distinct handle IDs, both are %d", a.ID())
	}
	if a.Store() != store || b.Store() != store {
		t.Error("expected handles to report their store")
	}
}
