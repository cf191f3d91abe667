package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which handle operation produced the error
type Phase string

const (
	PhaseAdopt    Phase = "adopt"    // taking ownership of a raw pointer
	PhaseClone    Phase = "clone"    // duplicating a handle
	PhaseQuery    Phase = "query"    // capability cast
	PhaseView     Phase = "view"     // layered ancestor views
	PhaseRelease  Phase = "release"  // dropping a handle
	PhaseAccess   Phase = "access"   // reaching the method surface
	PhaseWait     Phase = "wait"     // async wait
	PhasePoll     Phase = "poll"     // async status query
	PhaseCancel   Phase = "cancel"   // async cancellation
	PhaseBridge   Phase = "bridge"   // wasm host-module bridge
	PhaseParse    Phase = "parse"    // error table parsing
	PhaseGenerate Phase = "generate" // taxonomy code generation
	PhaseConfig   Phase = "config"   // CLI configuration
)

// Kind categorizes the error
type Kind string

const (
	KindNullPointer       Kind = "null_pointer"
	KindOverflow          Kind = "overflow"
	KindContractViolation Kind = "contract_violation"
	KindUseAfterRelease   Kind = "use_after_release"
	KindNotAncestor       Kind = "not_ancestor"
	KindNotImplemented    Kind = "not_implemented"
	KindTimeout           Kind = "timeout"
	KindInvalidInput      Kind = "invalid_input"
	KindMissingExport     Kind = "missing_export"
	KindSignatureMismatch Kind = "signature_mismatch"
	KindDuplicate         Kind = "duplicate"
	KindSyntax            Kind = "syntax"
)

// Error is the structured error type used throughout comsafe
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	Capability string
	Detail     string
	Line       int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Capability != "" {
		b.WriteString(" on ")
		b.WriteString(e.Capability)
	}

	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Capability sets the capability name the error refers to
func (b *Builder) Capability(name string) *Builder {
	b.err.Capability = name
	return b
}

// Line sets the 1-based source line for parse errors
func (b *Builder) Line(n int) *Builder {
	b.err.Line = n
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NullPointer creates an error for a nil raw pointer handed to a handle
func NullPointer(phase Phase, capability string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindNullPointer,
		Capability: capability,
		Detail:     "raw pointer was nil",
	}
}

// Overflow creates an error for a reference count that would pass its maximum
func Overflow(phase Phase, capability string, count uint64) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindOverflow,
		Capability: capability,
		Detail:     fmt.Sprintf("reference count already %d, another reference would overflow the 32-bit foreign counter", count),
		Value:      count,
	}
}

// ContractViolation creates an error for a foreign object breaking its documented contract
func ContractViolation(phase Phase, capability, detail string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindContractViolation,
		Capability: capability,
		Detail:     detail,
	}
}

// UseAfterRelease creates an error for an operation on a released handle
func UseAfterRelease(phase Phase, capability string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindUseAfterRelease,
		Capability: capability,
		Detail:     "handle already released",
	}
}

// NotAncestor creates an error for an upcast to a capability outside the documented chain
func NotAncestor(capability, target string) *Error {
	return &Error{
		Phase:      PhaseView,
		Kind:       KindNotAncestor,
		Capability: capability,
		Detail:     fmt.Sprintf("%s is not a documented ancestor", target),
	}
}

// Timeout creates an error for an async operation still pending after its wait budget
func Timeout(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTimeout,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Syntax creates a line-numbered parse error
func Syntax(line int, detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindSyntax,
		Line:   line,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingExport represents a single function absent from a bound module
type MissingExport struct {
	Module   string
	Function string
}

// MissingExportsError is returned when a module lacks functions required by the object ABI
type MissingExportsError struct {
	Exports []MissingExport
}

// NewMissingExportsError creates an error from a list of "module#function" strings
func NewMissingExportsError(exports []string) *MissingExportsError {
	result := &MissingExportsError{
		Exports: make([]MissingExport, 0, len(exports)),
	}
	for _, exp := range exports {
		mod, fn, found := strings.Cut(exp, "#")
		if !found {
			mod, fn = "", exp
		}
		result.Exports = append(result.Exports, MissingExport{
			Module:   mod,
			Function: fn,
		})
	}
	return result
}

func (e *MissingExportsError) Error() string {
	if len(e.Exports) == 0 {
		return "[bridge] missing_export: no exports specified"
	}

	var b strings.Builder
	b.WriteString("[bridge] missing_export: ")
	for i, exp := range e.Exports {
		if i > 0 {
			b.WriteString(", ")
		}
		if exp.Module != "" {
			b.WriteString(exp.Module)
			b.WriteByte('#')
		}
		b.WriteString(exp.Function)
	}
	return b.String()
}

// Is reports whether target is a bridge missing-export error
func (e *MissingExportsError) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Phase == PhaseBridge && t.Kind == KindMissingExport
	}
	_, ok := target.(*MissingExportsError)
	return ok
}
