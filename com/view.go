package com

import (
	"sync/atomic"

	"github.com/wippyai/comsafe/errors"
)

// View borrows the surface of a live Ref. It holds no foreign reference of
// its own and becomes unusable as soon as the owning handle is released.
type View[T any] struct {
	surface T
	cap     *Capability[T]
	owner   *atomic.Bool
}

// View borrows r's surface.
func (r *Ref[T]) View() View[T] {
	r.mustBeLive(errors.PhaseView)
	return View[T]{surface: r.surface, cap: r.cap, owner: &r.released}
}

// Get returns the borrowed surface. It panics when the owner has been
// released or the view is the zero value.
func (v View[T]) Get() T {
	if !v.Valid() {
		fatal(errors.UseAfterRelease(errors.PhaseView, v.name()))
	}
	return v.surface
}

// Valid reports whether the owning handle is still live.
func (v View[T]) Valid() bool {
	return v.owner != nil && !v.owner.Load()
}

// Capability returns the capability the view is typed as.
func (v View[T]) Capability() *Capability[T] {
	return v.cap
}

func (v View[T]) name() string {
	if v.cap == nil {
		return ""
	}
	return v.cap.name
}

// Upcast reinterprets v as the ancestor capability. It makes no foreign
// call. Upcast panics when ancestor is not in v's documented chain.
func Upcast[A, T any](v View[T], ancestor *Capability[A]) View[A] {
	if !v.Valid() {
		fatal(errors.UseAfterRelease(errors.PhaseView, v.name()))
	}
	if !IsAncestor(v.cap, ancestor) {
		fatal(errors.NotAncestor(v.cap.name, ancestor.name))
	}

	a, ok := any(v.surface).(A)
	if !ok {
		fatal(errors.ContractViolation(errors.PhaseView, v.cap.name,
			"surface does not implement "+ancestor.name))
	}
	return View[A]{surface: a, cap: ancestor, owner: v.owner}
}

// As borrows r as one of its documented ancestors.
func As[A, T any](r *Ref[T], ancestor *Capability[A]) View[A] {
	return Upcast(r.View(), ancestor)
}
