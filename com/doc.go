// Package com wraps externally owned, reference-counted objects in handles
// whose lifetime is managed by Go code.
//
// The foreign side exposes three primitives through Unknown: AddRef,
// Release and QueryInterface. Everything else in this package is built on
// those, so any object that honors the contract can be adopted, whether it
// lives in-process (package foreign) or behind a wasm module (package
// wasmobj).
//
// # Capabilities
//
// A Capability names one interface an object can expose: a Go surface type
// T, a human-readable name and a 128-bit identity. Capabilities are declared
// once at package level:
//
//	var IGreeter = com.Define[Greeter]("IGreeter", guid.MustParse("{...}"))
//	var IPoliteGreeter = com.Derive[PoliteGreeter](IGreeter, "IPoliteGreeter", guid.MustParse("{...}"))
//
// Derive records the documented ancestor chain and refuses a surface whose
// method set does not include the parent's.
//
// # Handles
//
// Adopt takes ownership of one reference the caller already holds. Each Ref
// then releases exactly one foreign reference, on the first Release call:
//
//	r := com.Adopt(IGreeter, raw)
//	defer r.Release()
//
//	g := r.Get()
//	g.Greet("world")
//
// Clone and successful Query calls share a lineage counter with the source
// handle. The counter is created lazily on first share and refuses to pass
// math.MaxUint32, which is checked before any foreign AddRef is issued.
//
// # Casting
//
// Query asks the object for another capability. The result is either a new
// independent handle, or false when the object reports E_NOINTERFACE. Any
// other status, or a successful status with no usable pointer, is a broken
// contract and panics.
//
// # Views
//
// A View borrows the surface of a live handle without touching the foreign
// counter. Upcast converts a view to a documented ancestor. Views check the
// owning handle on every Get and panic once it has been released.
//
// # Fatal Conditions
//
// Programming errors and broken foreign contracts panic with a
// *errors.Error: nil raw pointers, counter overflow, use after release,
// upcasts outside the chain and unexpected query statuses. They are never
// returned as error values.
package com
