// Package errors provides structured error types for the comsafe library.
//
// Errors are categorized by Phase (which handle operation failed) and Kind
// (error category). The Error type carries the capability name, a detail
// message, an optional source line and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseQuery, errors.KindContractViolation).
//		Capability("IVssAsync").
//		Detail("QueryInterface returned %s", hr).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Overflow(errors.PhaseClone, "IVssAsync", count)
//	err := errors.UseAfterRelease(errors.PhaseView, "IVssBackupComponents")
//
// Fatal conditions (null pointers, counter overflow, foreign contract
// violations) are raised as panics carrying an *Error; everything else is
// returned. All errors implement the standard error interface and support
// errors.Is/As, matching on Phase and Kind.
package errors
