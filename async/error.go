package async

import (
	"fmt"

	"github.com/wippyai/comsafe/errors"
	"github.com/wippyai/comsafe/hresult"
)

// ErrTimeout matches the error Wait returns when the task is still pending
// once its timeout has elapsed.
var ErrTimeout = &errors.Error{Phase: errors.PhaseWait, Kind: errors.KindTimeout}

// Error is a status code returned by a task control method. The same code
// can mean the control mechanism failed (A) or the operation that started
// the task failed (E); both readings are available and neither is
// preferred.
type Error[A, E hresult.Code] struct {
	Code hresult.HRESULT
}

// Mechanism reads the code as a failure of Wait, QueryStatus or Cancel.
func (e *Error[A, E]) Mechanism() A {
	return A(e.Code)
}

// Underlying reads the code as a failure of the originating operation.
func (e *Error[A, E]) Underlying() E {
	return E(e.Code)
}

// HRESULT returns the raw code.
func (e *Error[A, E]) HRESULT() hresult.HRESULT {
	return e.Code
}

func (e *Error[A, E]) Error() string {
	return fmt.Sprintf("async operation failed with %s: mechanism error %v or underlying error %v",
		e.Code, e.Mechanism(), e.Underlying())
}

// Unwrap exposes the raw code, so errors.As with a *hresult.HRESULT target
// works on any projection pair.
func (e *Error[A, E]) Unwrap() error {
	return e.Code
}
