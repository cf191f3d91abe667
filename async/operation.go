package async

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/comsafe/com"
	"github.com/wippyai/comsafe/errors"
	"github.com/wippyai/comsafe/hresult"
)

// Infinite waits without a timeout.
const Infinite time.Duration = -1

// infiniteMillis is the foreign encoding of an unbounded wait.
const infiniteMillis = math.MaxUint32

// waitSlice bounds each foreign wait issued by WaitContext, so a context
// without a deadline is still observed.
const waitSlice = 100 * time.Millisecond

// Operation is a handle to a foreign task started by an operation whose
// failures are classified by E. Dropping an Operation neither waits for nor
// cancels the task.
type Operation[E hresult.Code] struct {
	ref *com.Ref[Task]
}

// New wraps a task handle. The Operation takes over ref.
func New[E hresult.Code](ref *com.Ref[Task]) *Operation[E] {
	if ref == nil {
		panic(errors.NullPointer(errors.PhaseAdopt, ITask.Name()))
	}
	return &Operation[E]{ref: ref}
}

// Adopt takes ownership of one reference to a raw task object.
func Adopt[E hresult.Code](raw com.Unknown) *Operation[E] {
	return New[E](com.Adopt(ITask, raw))
}

// As relabels the error taxonomy of o. The returned Operation takes over
// o's handle and o must not be used afterwards.
func As[E2, E hresult.Code](o *Operation[E]) *Operation[E2] {
	ref := o.handle(errors.PhaseAccess)
	o.ref = nil
	return &Operation[E2]{ref: ref}
}

// Untyped relabels o to report raw codes, which lets operations started by
// different calls share one slice.
func (o *Operation[E]) Untyped() *Operation[hresult.HRESULT] {
	return As[hresult.HRESULT](o)
}

// Ref returns the underlying task handle.
func (o *Operation[E]) Ref() *com.Ref[Task] {
	return o.handle(errors.PhaseAccess)
}

// Clone returns a second handle to the same task.
func (o *Operation[E]) Clone() *Operation[E] {
	return &Operation[E]{ref: o.handle(errors.PhaseClone).Clone()}
}

// Release drops the task handle. The task keeps running.
func (o *Operation[E]) Release() {
	if o.ref != nil {
		o.ref.Release()
	}
}

// Wait blocks until the task reaches a terminal state or timeout elapses.
// Pass Infinite to wait without a timeout.
//
// Wait returns nil once the task is finished or canceled; use Poll to tell
// the two apart. When the task is still pending after an explicit timeout,
// Wait requests cancellation and returns an error matching ErrTimeout.
// Failures of the foreign wait are *Error[WaitError, E]; failures of the
// status re-check are *Error[QueryStatusError, E].
func (o *Operation[E]) Wait(timeout time.Duration) error {
	task := o.task(errors.PhaseWait)
	ms := toMillis(timeout)

	Logger().Debug("wait", zap.Duration("timeout", timeout))
	if hr := task.Wait(ms); hr != hresult.S_OK {
		return &Error[WaitError, E]{Code: hr}
	}

	status, err := o.Poll()
	if err != nil {
		return err
	}
	if status != Pending {
		return nil
	}

	if timeout < 0 {
		panic(errors.ContractViolation(errors.PhaseWait, ITask.Name(),
			"unbounded wait returned while the task is still pending"))
	}

	o.abandon(task)
	return errors.Timeout(errors.PhaseWait,
		fmt.Sprintf("task still pending after %s, cancel requested", timeout))
}

// WaitContext is like Wait but observes ctx. The foreign wait is issued in
// bounded slices so cancellation without a deadline is noticed. When ctx
// ends while the task still reports pending, cancellation is requested and
// the returned error matches both ErrTimeout and ctx.Err().
func (o *Operation[E]) WaitContext(ctx context.Context) error {
	if ctx.Done() == nil {
		return o.Wait(Infinite)
	}

	task := o.task(errors.PhaseWait)
	for {
		if err := ctx.Err(); err != nil {
			status, perr := o.Poll()
			if perr != nil {
				return perr
			}
			if status.Terminal() {
				return nil
			}
			o.abandon(task)
			return errors.Wrap(errors.PhaseWait, errors.KindTimeout, err, "task abandoned, cancel requested")
		}

		slice := waitSlice
		if deadline, ok := ctx.Deadline(); ok {
			slice = min(slice, max(time.Until(deadline), 0))
		}

		if hr := task.Wait(toMillis(slice)); hr != hresult.S_OK {
			return &Error[WaitError, E]{Code: hr}
		}

		status, err := o.Poll()
		if err != nil {
			return err
		}
		if status != Pending {
			return nil
		}
	}
}

// Poll returns the current status without blocking. A status code that is
// not one of the three task states is the originating operation's failure
// and is returned as *Error[QueryStatusError, E].
func (o *Operation[E]) Poll() (Status, error) {
	code, hr := o.task(errors.PhasePoll).QueryStatus()
	if hr != hresult.S_OK {
		return 0, &Error[QueryStatusError, E]{Code: hr}
	}
	status, ok := StatusFromCode(code)
	if !ok {
		return 0, &Error[QueryStatusError, E]{Code: code}
	}
	return status, nil
}

// Cancel requests cancellation. It has no effect on a task that already
// reached a terminal state; the task may still finish normally.
func (o *Operation[E]) Cancel() error {
	hr := o.task(errors.PhaseCancel).Cancel()
	if hresult.Failed(hr) {
		return &Error[CancelError, E]{Code: hr}
	}
	return nil
}

func (o *Operation[E]) String() string {
	if o.ref == nil {
		return "Operation(moved)"
	}
	return fmt.Sprintf("Operation(%s)", o.ref)
}

// abandon issues a best-effort cancel after a timed-out wait.
func (o *Operation[E]) abandon(task Task) {
	if hr := task.Cancel(); hresult.Failed(hr) {
		Logger().Warn("cancel after timeout failed", zap.Stringer("hresult", hr))
		return
	}
	Logger().Debug("cancel after timeout requested")
}

func (o *Operation[E]) task(phase errors.Phase) Task {
	return o.handle(phase).Get()
}

func (o *Operation[E]) handle(phase errors.Phase) *com.Ref[Task] {
	if o.ref == nil {
		panic(errors.UseAfterRelease(phase, ITask.Name()))
	}
	return o.ref
}

// toMillis rounds d up to whole milliseconds. Negative durations wait
// forever.
func toMillis(d time.Duration) uint32 {
	if d < 0 {
		return infiniteMillis
	}
	if d >= (infiniteMillis-1)*time.Millisecond {
		return infiniteMillis - 1
	}
	return uint32((d + time.Millisecond - 1) / time.Millisecond)
}
