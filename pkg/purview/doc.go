// Package purview provides a reactive state container with per-observer
// selector subscriptions.
//
// A Store holds an immutable snapshot of application state. Observers do not
// subscribe to the store wholesale; each observer declares selectors over the
// state and is woken only when one of its selected slices actually changes.
//
// # Core Types
//
// Store[T] holds the current and previous state snapshots:
//
//	store := purview.NewStore(AppState{Count: 0})
//	state := store.State()               // Read current snapshot
//	store.SetState(AppState{Count: 1})   // Install new snapshot, notify
//	store.Update(func(s *AppState) AppState {
//	    return AppState{Count: s.Count + 1}
//	})
//
// Handle[T] is an observer's selector registry, bound to the store by Attach:
//
//	handle := purview.Attach(store, wake)
//
// During each evaluation pass the observer re-declares its selectors in a
// stable order:
//
//	handle.BeginPass()
//	count := purview.Map(handle, func(s *AppState) int { return s.Count })
//	name := purview.MapRef(handle, func(s *AppState) *string { return &s.Name })
//
// When the store transitions, each live handle diffs its declared selectors
// against the (previous, next) snapshot pair and calls the observer's wake
// callback at most once if any selector's value changed.
//
// # Declaration Rules
//
// Selectors must be declared unconditionally and in the same order on every
// pass for a given handle. Declaring a different count or kind of selector
// across passes is a programming error and panics with ErrSelectorOrder.
//
// # Concurrency
//
// The store and its handles are confined to a single goroutine of control:
// all writes, notifications, and evaluation passes must happen on one logical
// thread. SetState is reentrant (a subscriber may write again during
// notification; passes nest depth-first), but nothing here is safe for
// concurrent use. Hosts with concurrent transports serialize onto a dispatch
// loop; see the live package.
package purview
