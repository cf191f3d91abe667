// Package wasm builds the small guest modules the object bridge binds to.
//
// wazero forbids calling a host module's functions through
// ExportedFunction, so the host side of the object ABI is wrapped in a
// forwarder: a guest module that imports each host function and exports a
// function of the same name and type that calls straight through.
//
//	b := wasm.NewForwarderBuilder("comsafe:object.host")
//	b.AddFunc("add_ref", []api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32})
//	bin := b.Build()
//
// This package is internal to wasmobj.
package wasm
