package purview

import (
	"fmt"
	"reflect"
)

// Scope is a hierarchical registry of stores and services, keyed by type.
// Hosts create one scope per subtree of observers and hand it to each
// observer; lookups walk parent scopes, so a store provided near the root is
// visible to every descendant.
//
// Scope is the explicit stand-in for a host framework's context-provider
// mechanism. The core never consults ambient state to find a store.
type Scope struct {
	parent *Scope
	values map[scopeKey]any
}

type scopeKey struct {
	kind string
	typ  reflect.Type
}

// NewScope creates a scope. parent may be nil for a root scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent}
}

func (s *Scope) set(key scopeKey, value any) {
	if s.values == nil {
		s.values = make(map[scopeKey]any)
	}
	s.values[key] = value
}

func (s *Scope) lookup(key scopeKey) any {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.values[key]; ok {
			return v
		}
	}
	return nil
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ProvideStore registers a store in the scope, keyed by its state type.
// Providing the same state type again in the same scope replaces the
// registration; providing it in a child scope shadows the parent's.
func ProvideStore[T any](s *Scope, store *Store[T]) {
	s.set(scopeKey{kind: "store", typ: typeOf[T]()}, store)
}

// UseStore returns the store for state type T from the scope or its
// parents. Consuming a store that was never provided is fatal: UseStore
// panics with ErrStoreNotProvided naming the missing state type, it never
// silently defaults.
func UseStore[T any](s *Scope) *Store[T] {
	v := s.lookup(scopeKey{kind: "store", typ: typeOf[T]()})
	if v == nil {
		panic(fmt.Errorf("%w: no Store[%v] in scope or its parents", ErrStoreNotProvided, typeOf[T]()))
	}
	return v.(*Store[T])
}

// ProvideService registers a service instance in the scope, keyed by its
// type. Services are plain shared objects, typically holding a store and
// exposing domain operations over it.
func ProvideService[T any](s *Scope, svc *T) {
	s.set(scopeKey{kind: "service", typ: typeOf[T]()}, svc)
}

// UseService returns the service of type T from the scope or its parents,
// panicking with ErrServiceNotProvided if it was never provided.
func UseService[T any](s *Scope) *T {
	v := s.lookup(scopeKey{kind: "service", typ: typeOf[T]()})
	if v == nil {
		panic(fmt.Errorf("%w: no %v in scope or its parents", ErrServiceNotProvided, typeOf[T]()))
	}
	return v.(*T)
}
