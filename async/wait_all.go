package async

import (
	"fmt"
	"time"

	"github.com/wippyai/comsafe/hresult"
)

// WaitAll waits for each operation in turn, sharing one timeout budget
// across all of them. It stops at the first failure and reports the index
// of the operation that produced it.
func WaitAll[E hresult.Code](timeout time.Duration, ops ...*Operation[E]) error {
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}

	for i, op := range ops {
		remaining := Infinite
		if !deadline.IsZero() {
			remaining = max(time.Until(deadline), 0)
		}
		if err := op.Wait(remaining); err != nil {
			return fmt.Errorf("operation %d of %d: %w", i+1, len(ops), err)
		}
	}
	return nil
}
