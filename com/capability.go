package com

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/wippyai/comsafe/errors"
	"github.com/wippyai/comsafe/guid"
)

// Descriptor is the untyped view of a Capability, used by tools that
// inspect capabilities without knowing their surface types.
type Descriptor interface {
	Name() string
	IID() guid.GUID
	Parent() Descriptor
	SurfaceType() reflect.Type
}

// Capability identifies one interface a foreign object may expose. T is the
// Go surface type callers use once they hold a handle.
type Capability[T any] struct {
	parent  Descriptor
	surface reflect.Type
	name    string
	iid     guid.GUID
}

// IUnknown is the root capability every object implements.
var IUnknown = root()

func root() *Capability[any] {
	c := &Capability[any]{
		name:    "IUnknown",
		iid:     guid.IIDUnknown,
		surface: reflect.TypeFor[any](),
	}
	register(c)
	return c
}

// Define declares a capability whose only documented ancestor is IUnknown.
func Define[T any](name string, iid guid.GUID) *Capability[T] {
	return Derive[T](IUnknown, name, iid)
}

// Derive declares a capability that extends parent. The surface type T must
// include every method of the parent's surface type A, so an upcast from T
// to A never needs the foreign object.
func Derive[T, A any](parent *Capability[A], name string, iid guid.GUID) *Capability[T] {
	if parent == nil {
		panic(errors.New(errors.PhaseView, errors.KindInvalidInput).
			Capability(name).
			Detail("nil parent capability").
			Build())
	}

	st := reflect.TypeFor[T]()
	at := reflect.TypeFor[A]()
	if at.Kind() != reflect.Interface || !st.Implements(at) {
		panic(errors.New(errors.PhaseView, errors.KindNotAncestor).
			Capability(name).
			Detail("surface %s does not extend %s", st, at).
			Build())
	}

	c := &Capability[T]{
		name:    name,
		iid:     iid,
		surface: st,
		parent:  parent,
	}
	register(c)
	return c
}

// Name returns the capability name.
func (c *Capability[T]) Name() string { return c.name }

// IID returns the capability identity token.
func (c *Capability[T]) IID() guid.GUID { return c.iid }

// Parent returns the direct ancestor, or nil for a root capability.
func (c *Capability[T]) Parent() Descriptor { return c.parent }

// SurfaceType returns the reflected surface type T.
func (c *Capability[T]) SurfaceType() reflect.Type { return c.surface }

func (c *Capability[T]) String() string {
	return fmt.Sprintf("%s %s", c.name, c.iid)
}

// Ancestors returns the documented chain from the direct parent up to the
// root. The capability itself is not included.
func Ancestors(d Descriptor) []Descriptor {
	var chain []Descriptor
	for p := d.Parent(); p != nil; p = p.Parent() {
		chain = append(chain, p)
	}
	return chain
}

// IsAncestor reports whether target appears in d's documented chain.
func IsAncestor(d, target Descriptor) bool {
	for p := d.Parent(); p != nil; p = p.Parent() {
		if p == target {
			return true
		}
	}
	return false
}

var (
	registryMu sync.RWMutex
	registry   = make(map[guid.GUID]Descriptor)
)

// register panics when an IID is claimed twice by different declarations.
// Re-declaring the same name and surface is tolerated.
func register(d Descriptor) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if prev, ok := registry[d.IID()]; ok {
		if prev.Name() != d.Name() || prev.SurfaceType() != d.SurfaceType() {
			panic(errors.New(errors.PhaseView, errors.KindDuplicate).
				Capability(d.Name()).
				Detail("IID %s already registered by %s", d.IID(), prev.Name()).
				Build())
		}
		return
	}
	registry[d.IID()] = d
}

// Lookup returns the capability registered for iid.
func Lookup(iid guid.GUID) (Descriptor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[iid]
	return d, ok
}

// Registered returns every declared capability, sorted by name.
func Registered() []Descriptor {
	registryMu.RLock()
	out := make([]Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	registryMu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
