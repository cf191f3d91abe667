package foreign

import (
	"math"
	"testing"
	"time"

	"github.com/wippyai/comsafe/com"
	"github.com/wippyai/comsafe/hresult"
)

func TestTask_Complete(t *testing.T) {
	host := NewHost()
	task := host.NewTask("task", TaskOptions{})

	status, hr := task.QueryStatus()
	if hr != hresult.S_OK || status != hresult.VSS_S_ASYNC_PENDING {
		t.Fatalf("Expected pending, got %s/%s", status, hr)
	}

	task.Complete()
	task.Fail(hresult.E_FAIL)
	task.Cancel()

	status, _ = task.QueryStatus()
	if status != hresult.VSS_S_ASYNC_FINISHED {
		t.Fatalf("Terminal state changed: %s", status)
	}
	if hr := task.Cancel(); hr != hresult.VSS_S_ASYNC_FINISHED {
		t.Fatalf("Cancel on a finished task should report it, got %s", hr)
	}
}

func TestTask_Fail(t *testing.T) {
	host := NewHost()
	task := host.NewTask("task", TaskOptions{})
	task.Fail(hresult.E_ACCESSDENIED)

	status, hr := task.QueryStatus()
	if hr != hresult.S_OK || status != hresult.E_ACCESSDENIED {
		t.Fatalf("Expected failure status, got %s/%s", status, hr)
	}
	if hr := task.Wait(math.MaxUint32); hr != hresult.S_OK {
		t.Fatalf("Wait on a settled task failed: %s", hr)
	}
}

func TestTask_Duration(t *testing.T) {
	host := NewHost()
	task := host.NewTask("task", TaskOptions{Duration: 10 * time.Millisecond})

	start := time.Now()
	if hr := task.Wait(math.MaxUint32); hr != hresult.S_OK {
		t.Fatalf("Wait failed: %s", hr)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Fatal("Wait returned before the task finished")
	}
	if task.Status() != hresult.VSS_S_ASYNC_FINISHED {
		t.Fatalf("Expected finished, got %s", task.Status())
	}
}

func TestTask_WaitBudgetExpires(t *testing.T) {
	host := NewHost()
	task := host.NewTask("task", TaskOptions{})

	if hr := task.Wait(5); hr != hresult.S_OK {
		t.Fatalf("Expired wait should still report S_OK, got %s", hr)
	}
	if task.Status() != hresult.VSS_S_ASYNC_PENDING {
		t.Fatal("Task should still be pending")
	}
	if task.Waits() != 1 {
		t.Fatalf("Expected 1 wait, got %d", task.Waits())
	}
}

func TestTask_Uncancelable(t *testing.T) {
	host := NewHost()
	task := host.NewTask("task", TaskOptions{Uncancelable: true})

	if hr := task.Cancel(); hr != hresult.S_OK {
		t.Fatalf("Cancel should be accepted, got %s", hr)
	}
	if task.Status() != hresult.VSS_S_ASYNC_PENDING {
		t.Fatal("Uncancelable task should keep running")
	}
	if task.Cancels() != 1 {
		t.Fatalf("Expected 1 cancel, got %d", task.Cancels())
	}
}

func TestTask_InjectedResults(t *testing.T) {
	host := NewHost()
	task := host.NewTask("task", TaskOptions{
		WaitResult:   hresult.E_ACCESSDENIED,
		StatusResult: hresult.E_INVALIDARG,
		CancelResult: hresult.VSS_E_BAD_STATE,
	})

	if hr := task.Wait(0); hr != hresult.E_ACCESSDENIED {
		t.Fatalf("Expected injected wait result, got %s", hr)
	}
	if _, hr := task.QueryStatus(); hr != hresult.E_INVALIDARG {
		t.Fatalf("Expected injected status result, got %s", hr)
	}
	if hr := task.Cancel(); hr != hresult.VSS_E_BAD_STATE {
		t.Fatalf("Expected injected cancel result, got %s", hr)
	}
}

func TestTask_DestroyStopsTimer(t *testing.T) {
	host := NewHost()
	task := host.NewTask("task", TaskOptions{Duration: time.Hour})
	task.Release()

	if !task.Destroyed() {
		t.Fatal("Expected task destroyed")
	}
	if _, hr := task.QueryStatus(); hr != hresult.E_UNEXPECTED {
		t.Fatalf("Expected E_UNEXPECTED after destruction, got %s", hr)
	}
	if len(host.Violations()) != 1 {
		t.Fatal("Use after free should be recorded")
	}
}

type greeterSurface interface {
	Greet(name string) string
}

var iGreeter = com.Define[greeterSurface]("IForeignGreeter", iidGreeter)

func TestWithRefs_CloneAndRelease(t *testing.T) {
	host := NewHost()
	obj := host.NewObject("test")
	obj.Implement(iidGreeter, greeter{obj})

	raw, _ := obj.Surface(iidGreeter)
	a := com.Adopt(iGreeter, raw)
	b := a.Clone()
	c := b.Clone()

	addRefs, _, _ := obj.Calls()
	if addRefs != 2 || obj.RefCount() != 3 {
		t.Fatalf("Expected 2 add-refs and count 3, got %d and %d", addRefs, obj.RefCount())
	}

	c.Release()
	b.Release()
	a.Release()
	a.Release()

	_, releases, _ := obj.Calls()
	if releases != 3 {
		t.Fatalf("Expected exactly 3 releases, got %d", releases)
	}
	if !obj.Destroyed() {
		t.Fatal("Expected object destroyed")
	}
	if v := host.Violations(); len(v) != 0 {
		t.Fatalf("Unexpected violations: %+v", v)
	}
}
