package purview

import "errors"

// ErrSelectorOrder is the precondition violation raised (via panic) when an
// observer's selector declarations differ between evaluation passes: a
// different count, a different kind (value vs reference) at the same
// position, or a different value type at the same position.
//
// Selectors must be declared unconditionally and in the same order on every
// pass. This error indicates a usage bug, never a transient condition.
var ErrSelectorOrder = errors.New("purview: selector declaration order mismatch")

// ErrNoPass is raised (via panic) when a selector is declared outside an
// evaluation pass, i.e. before BeginPass was called on the handle.
var ErrNoPass = errors.New("purview: selector declared outside an evaluation pass")

// ErrStoreNotProvided is raised (via panic) by UseStore when no store for the
// requested state type was provided to the scope or any of its parents.
var ErrStoreNotProvided = errors.New("purview: store not provided in scope")

// ErrServiceNotProvided is raised (via panic) by UseService when no service
// of the requested type was provided to the scope or any of its parents.
var ErrServiceNotProvided = errors.New("purview: service not provided in scope")
