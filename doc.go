// Package comsafe is a safety layer over foreign reference-counted objects
// that follow the COM contract: AddRef, Release and QueryInterface by
// interface identifier.
//
// Raw foreign pointers are easy to misuse. They get released twice, used
// after release, cast to interfaces they never implemented, or cloned until
// the 32-bit counter wraps. This module wraps them in owning handles whose
// lifetime is tied to the Go value that holds them.
//
// # Architecture Overview
//
//	comsafe/
//	├── guid/        Interface identifiers (COM field layout, uuid parsing)
//	├── hresult/     Foreign status codes and the taxonomy constraint
//	├── errors/      Structured error types for contract breaks
//	├── com/         Capabilities, owning handles, casts and layered views
//	├── async/       Handles to foreign asynchronous tasks
//	├── taxonomy/    Error table parser and code generator
//	├── foreign/     In-process foreign host that records contract breaches
//	├── wasmobj/     The object ABI exported and consumed over wazero
//	└── cmd/
//	    ├── comerrgen/   go:generate tool for error taxonomies
//	    └── comview/     Scripted and interactive handle inspector
//
// # Quick Start
//
// Declare a capability and adopt a pointer returned by a foreign call:
//
//	type Document interface {
//	    Title() string
//	}
//
//	var IDocument = com.Define[Document]("IDocument", guid.MustParse("{9B0E6C52-...}"))
//
//	doc, err := com.AdoptOut(IDocument, raw, hr)
//	if err != nil {
//	    return err
//	}
//	defer doc.Release()
//
//	fmt.Println(doc.Get().Title())
//
// Cast to another capability the object may implement:
//
//	signed, ok := com.Query(doc, ISignedDocument)
//	if ok {
//	    defer signed.Release()
//	}
//
// Wait for a foreign task:
//
//	op := async.Adopt[BackupError](raw)
//	defer op.Release()
//
//	if err := op.Wait(30 * time.Second); err != nil {
//	    return err
//	}
//
// # Fatal Conditions
//
// A nil pointer from a call that reported success, a reference count about
// to pass 2^32-1, use of a released handle and a cast that the object
// answered with the wrong type all panic with an *errors.Error. They mean
// the foreign side or the caller broke the contract and the process cannot
// continue safely. Everything the contract allows to fail comes back as an
// error.
//
// # Thread Safety
//
// Handles are safe to clone, release and query from multiple goroutines.
// Whether the methods reached through Get may be called concurrently is up
// to the foreign object.
package comsafe
