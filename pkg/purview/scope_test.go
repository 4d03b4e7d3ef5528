package purview

import (
	"testing"
)

type counterService struct {
	store *Store[appState]
}

func (s *counterService) Increment() {
	s.store.Update(func(st *appState) appState {
		return appState{Count: st.Count + 1, Name: st.Name, Tags: st.Tags}
	})
}

func TestScopeProvideAndUseStore(t *testing.T) {
	scope := NewScope(nil)
	store := NewStore(appState{Count: 1})
	ProvideStore(scope, store)

	if got := UseStore[appState](scope); got != store {
		t.Error("expected the provided store back")
	}
}

func TestScopeLookupWalksParents(t *testing.T) {
	root := NewScope(nil)
	store := NewStore(appState{})
	ProvideStore(root, store)

	leaf := NewScope(NewScope(root))
	if got := UseStore[appState](leaf); got != store {
		t.Error("expected store from grandparent scope")
	}
}

func TestScopeChildShadowsParent(t *testing.T) {
	root := NewScope(nil)
	parentStore := NewStore(appState{Name: "parent"})
	ProvideStore(root, parentStore)

	child := NewScope(root)
	childStore := NewStore(appState{Name: "child"})
	ProvideStore(child, childStore)

	if got := UseStore[appState](child); got != childStore {
		t.Error("expected child registration to shadow the parent's")
	}
	if got := UseStore[appState](root); got != parentStore {
		t.Error("expected parent scope unaffected by the child")
	}
}

func TestUseStoreUnregisteredPanics(t *testing.T) {
	scope := NewScope(nil)

	expectPanic(t, ErrStoreNotProvided, func() {
		UseStore[appState](scope)
	})
}

func TestScopeServices(t *testing.T) {
	scope := NewScope(nil)
	store := NewStore(appState{})
	ProvideStore(scope, store)
	ProvideService(scope, &counterService{store: store})

	svc := UseService[counterService](scope)
	svc.Increment()
	svc.Increment()

	if got := store.State().Count; got != 2 {
		t.Errorf("expected count 2 after two increments, got %d", got)
	}
}

func TestUseServiceUnregisteredPanics(t *testing.T) {
	scope := NewScope(nil)

	expectPanic(t, ErrServiceNotProvided, func() {
		UseService[counterService](scope)
	})
}
