// Package hresult defines the status codes returned across the foreign
// boundary.
//
// HRESULT implements error, in the same spirit as syscall.Errno, so a raw
// code can be returned or wrapped without conversion:
//
//	if err := hresult.Check(hr); err != nil {
//	    return fmt.Errorf("start snapshot set: %w", err)
//	}
//
// # Error Taxonomies
//
// Per-operation error types are generated from a textual table by
// cmd/comerrgen. Each generated type is declared over HRESULT, so it
// satisfies the Code constraint and converts from a raw code directly:
//
//	type WaitError hresult.HRESULT
//
//	err := WaitError(hr)
//	switch err.Kind() { ... }
//
// Code-generic helpers such as IsSuccess accept any such taxonomy, including
// HRESULT itself for callers that keep codes untyped.
package hresult
