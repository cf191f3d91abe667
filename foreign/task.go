package foreign

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/comsafe/async"
	"github.com/wippyai/comsafe/hresult"
)

// TaskOptions configures a hosted task.
type TaskOptions struct {
	// Duration after which the task finishes on its own. Zero leaves the
	// task pending until Complete, Fail or Cancel.
	Duration time.Duration

	// WaitResult, StatusResult and CancelResult, when non-zero, are
	// returned by the matching control method instead of its normal
	// outcome.
	WaitResult   hresult.HRESULT
	StatusResult hresult.HRESULT
	CancelResult hresult.HRESULT

	// Uncancelable tasks accept Cancel but keep running.
	Uncancelable bool
}

// Task is a hosted asynchronous task. The host owns its progress: a timer
// finishes it after Duration, and Complete or Fail settle it from outside.
type Task struct {
	*Object
	done    chan struct{}
	timer   *time.Timer
	opts    TaskOptions
	mu      sync.Mutex
	status  hresult.HRESULT
	waits   int
	cancels int
}

var _ async.Task = (*Task)(nil)

func newTask(o *Object, opts TaskOptions) *Task {
	t := &Task{
		Object: o,
		opts:   opts,
		status: hresult.VSS_S_ASYNC_PENDING,
		done:   make(chan struct{}),
	}
	o.Implement(async.ITask.IID(), t)
	o.onDestroy = t.stop
	if opts.Duration > 0 {
		t.mu.Lock()
		t.timer = time.AfterFunc(opts.Duration, t.Complete)
		t.mu.Unlock()
	}
	return t
}

// Wait implements async.Task. It returns S_OK both when the task settles
// and when the wait budget runs out.
func (t *Task) Wait(milliseconds uint32) hresult.HRESULT {
	if t.Destroyed() {
		t.host.violate(t.Object, ViolationUseAfterFree, "Wait")
		return hresult.E_UNEXPECTED
	}

	t.mu.Lock()
	t.waits++
	t.mu.Unlock()

	if t.opts.WaitResult != 0 {
		return t.opts.WaitResult
	}

	if milliseconds == math.MaxUint32 {
		<-t.done
		return hresult.S_OK
	}

	timer := time.NewTimer(time.Duration(milliseconds) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-t.done:
	case <-timer.C:
	}
	return hresult.S_OK
}

// QueryStatus implements async.Task.
func (t *Task) QueryStatus() (status, hr hresult.HRESULT) {
	if t.Destroyed() {
		t.host.violate(t.Object, ViolationUseAfterFree, "QueryStatus")
		return 0, hresult.E_UNEXPECTED
	}
	if t.opts.StatusResult != 0 {
		return 0, t.opts.StatusResult
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status, hresult.S_OK
}

// Cancel implements async.Task. A task that already settled reports its
// terminal status as a success code.
func (t *Task) Cancel() hresult.HRESULT {
	if t.Destroyed() {
		t.host.violate(t.Object, ViolationUseAfterFree, "Cancel")
		return hresult.E_UNEXPECTED
	}

	t.mu.Lock()
	t.cancels++
	t.mu.Unlock()

	if t.opts.CancelResult != 0 {
		return t.opts.CancelResult
	}
	if t.opts.Uncancelable {
		return hresult.S_OK
	}

	if !t.settle(hresult.VSS_S_ASYNC_CANCELLED) {
		return t.Status()
	}
	return hresult.S_OK
}

// Complete finishes the task successfully. It has no effect once the task
// has settled.
func (t *Task) Complete() {
	t.settle(hresult.VSS_S_ASYNC_FINISHED)
}

// Fail settles the task with the failure code of the operation that
// started it. QueryStatus reports hr as the status.
func (t *Task) Fail(hr hresult.HRESULT) {
	t.settle(hr)
}

// Status returns the current status code.
func (t *Task) Status() hresult.HRESULT {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Cancels returns how many Cancel calls the task has seen.
func (t *Task) Cancels() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancels
}

// Waits returns how many Wait calls the task has seen.
func (t *Task) Waits() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.waits
}

// settle moves a pending task to status. Terminal states never change.
func (t *Task) settle(status hresult.HRESULT) bool {
	t.mu.Lock()
	if t.status != hresult.VSS_S_ASYNC_PENDING {
		t.mu.Unlock()
		return false
	}
	t.status = status
	close(t.done)
	t.mu.Unlock()

	t.stop()
	Logger().Debug("task settled",
		zap.String("task", t.name),
		zap.Stringer("status", status))
	return true
}

func (t *Task) stop() {
	t.mu.Lock()
	timer := t.timer
	t.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
}
