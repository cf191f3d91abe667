package com

import (
	"fmt"
	"math"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/comsafe/errors"
	"github.com/wippyai/comsafe/hresult"
)

// maxRefs is the largest count the foreign side can represent.
const maxRefs = math.MaxUint32

// lineage counts the live handles that descend from one adoption.
type lineage struct {
	count atomic.Uint64
}

// reserve adds one reference, refusing to pass maxRefs.
func (l *lineage) reserve() (uint64, bool) {
	for {
		n := l.count.Load()
		if n >= maxRefs {
			return n, false
		}
		if l.count.CompareAndSwap(n, n+1) {
			return n + 1, true
		}
	}
}

// Ref is an owning handle to one foreign reference. The zero value is not
// usable; obtain a Ref through Adopt, Clone or Query.
//
// A Ref must not be copied. Pass *Ref values around and Clone when a second
// owner is needed.
type Ref[T any] struct {
	raw      Unknown
	surface  T
	cap      *Capability[T]
	lineage  atomic.Pointer[lineage]
	released atomic.Bool
}

// Adopt takes ownership of one reference to raw. The caller must already
// hold that reference; Adopt does not call AddRef.
//
// Adopt panics when raw is nil or does not implement the capability's
// surface type.
func Adopt[T any](c *Capability[T], raw Unknown) *Ref[T] {
	if isNil(raw) {
		fatal(errors.NullPointer(errors.PhaseAdopt, c.name))
	}
	surface, ok := raw.(T)
	if !ok {
		fatal(errors.ContractViolation(errors.PhaseAdopt, c.name,
			fmt.Sprintf("%T does not implement %s", raw, c.surface)))
	}

	Logger().Debug("adopt", zap.String("capability", c.name))
	return &Ref[T]{raw: raw, surface: surface, cap: c}
}

// AdoptOut adopts the out-pointer of a factory call. A failing status is
// returned as an error and raw is left untouched; S_FALSE and other success
// codes adopt like S_OK.
func AdoptOut[T any](c *Capability[T], raw Unknown, hr hresult.HRESULT) (*Ref[T], error) {
	if hresult.Failed(hr) {
		return nil, fmt.Errorf("%s: %w", c.name, hr)
	}
	return Adopt(c, raw), nil
}

// Get returns the method surface. It panics once the handle is released.
func (r *Ref[T]) Get() T {
	r.mustBeLive(errors.PhaseAccess)
	return r.surface
}

// Raw returns the underlying object for bindings that need to pass it back
// across the boundary. The caller must not release it.
func (r *Ref[T]) Raw() Unknown {
	r.mustBeLive(errors.PhaseAccess)
	return r.raw
}

// Capability returns the capability this handle was adopted or queried as.
func (r *Ref[T]) Capability() *Capability[T] {
	return r.cap
}

// Clone returns a second owning handle to the same object. The lineage
// counter is checked before the foreign AddRef.
func (r *Ref[T]) Clone() *Ref[T] {
	r.mustBeLive(errors.PhaseClone)

	l := r.sharedLineage()
	n, ok := l.reserve()
	if !ok {
		fatal(errors.Overflow(errors.PhaseClone, r.cap.name, n))
	}
	r.raw.AddRef()

	c := &Ref[T]{raw: r.raw, surface: r.surface, cap: r.cap}
	c.lineage.Store(l)

	Logger().Debug("clone", zap.String("capability", r.cap.name), zap.Uint64("count", n))
	return c
}

// Release gives the foreign reference back. Only the first call has an
// effect, so Release is safe to defer alongside an explicit call.
func (r *Ref[T]) Release() {
	if !r.released.CompareAndSwap(false, true) {
		return
	}
	r.raw.Release()
	if l := r.lineage.Load(); l != nil {
		l.count.Add(^uint64(0))
	}
	Logger().Debug("release", zap.String("capability", r.cap.name))
}

// Released reports whether Release has been called.
func (r *Ref[T]) Released() bool {
	return r.released.Load()
}

// RefCount returns the number of live handles in this handle's lineage. It
// is 1 for a handle that has never been cloned or queried.
func (r *Ref[T]) RefCount() uint64 {
	if l := r.lineage.Load(); l != nil {
		return l.count.Load()
	}
	return 1
}

func (r *Ref[T]) String() string {
	state := "live"
	if r.Released() {
		state = "released"
	}
	return fmt.Sprintf("Ref[%s](%s, refs=%d)", r.cap.name, state, r.RefCount())
}

func (r *Ref[T]) sharedLineage() *lineage {
	if l := r.lineage.Load(); l != nil {
		return l
	}
	l := &lineage{}
	l.count.Store(1)
	if r.lineage.CompareAndSwap(nil, l) {
		return l
	}
	return r.lineage.Load()
}

func (r *Ref[T]) mustBeLive(phase errors.Phase) {
	if r.released.Load() {
		fatal(errors.UseAfterRelease(phase, r.cap.name))
	}
}

// fatal logs err and panics with it.
func fatal(err *errors.Error) {
	Logger().Error("handle contract broken",
		zap.String("phase", string(err.Phase)),
		zap.String("kind", string(err.Kind)),
		zap.String("capability", err.Capability),
		zap.String("detail", err.Detail))
	panic(err)
}
