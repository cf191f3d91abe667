package foreign

import (
	"testing"

	"github.com/wippyai/comsafe/async"
	"github.com/wippyai/comsafe/guid"
	"github.com/wippyai/comsafe/hresult"
)

func TestTable_Basic(t *testing.T) {
	host := NewHost()
	obj := host.NewObject("test")

	h := host.Register(obj)
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}
	if again := host.Register(obj); again != h {
		t.Fatalf("Same pointer got a second handle: %d != %d", again, h)
	}

	u, ok := host.Lookup(h)
	if !ok || u != obj {
		t.Fatal("Lookup failed")
	}
	if _, ok := host.Lookup(0); ok {
		t.Fatal("Handle 0 must be invalid")
	}
	if _, ok := host.Lookup(h + 10); ok {
		t.Fatal("Out of range handle must be invalid")
	}
}

func TestTable_HandlesFreedWithObject(t *testing.T) {
	host := NewHost()
	a := host.NewObject("a")
	g := greeter{a}
	a.Implement(iidGreeter, g)

	ha := host.Register(a)
	hg := host.Register(g)
	if host.Stats().Handles != 2 {
		t.Fatal("Expected 2 handles")
	}

	a.Release()
	if host.Stats().Handles != 0 {
		t.Fatal("Handles of a destroyed object should be forgotten")
	}

	b := host.NewObject("b")
	hb := host.Register(b)
	if hb != ha && hb != hg {
		t.Fatalf("Expected freed handle reuse, got %d", hb)
	}
}

func TestHandleABI(t *testing.T) {
	host := NewHost()
	obj := host.NewObject("test")
	obj.Implement(iidGreeter, greeter{obj})
	h := host.Register(obj)

	if n := host.AddRefHandle(h); n != 2 {
		t.Fatalf("Expected 2, got %d", n)
	}

	hg, hr := host.QueryHandle(h, iidGreeter)
	if hr != hresult.S_OK || hg == 0 || hg == h {
		t.Fatalf("QueryHandle: handle=%d hr=%s", hg, hr)
	}
	hg2, _ := host.QueryHandle(h, iidGreeter)
	if hg2 != hg {
		t.Fatal("Same surface should map to the same handle")
	}

	if _, hr := host.QueryHandle(h, guid.New()); hr != hresult.E_NOINTERFACE {
		t.Fatalf("Expected E_NOINTERFACE, got %s", hr)
	}

	for i := 0; i < 3; i++ {
		host.ReleaseHandle(hg)
	}
	if n := host.ReleaseHandle(h); n != 0 {
		t.Fatalf("Expected final release to return 0, got %d", n)
	}
	if !obj.Destroyed() {
		t.Fatal("Expected object destroyed")
	}

	if host.AddRefHandle(h) != 0 {
		t.Fatal("Stale handle should not resolve")
	}
	v := host.Violations()
	if len(v) != 1 || v[0].Kind != ViolationBadHandle || v[0].Op != "AddRef" {
		t.Fatalf("Expected bad handle violation, got %+v", v)
	}
}

func TestHandleABI_Task(t *testing.T) {
	host := NewHost()
	task := host.NewTask("task", TaskOptions{})
	obj := host.NewObject("plain")

	ht, hr := host.QueryHandle(host.Register(task.Object), async.ITask.IID())
	if hr != hresult.S_OK {
		t.Fatalf("Task query failed: %s", hr)
	}

	if status, hr := host.StatusHandle(ht); hr != hresult.S_OK || status != hresult.VSS_S_ASYNC_PENDING {
		t.Fatalf("Expected pending, got status=%s hr=%s", status, hr)
	}
	if hr := host.CancelHandle(ht); hr != hresult.S_OK {
		t.Fatalf("Cancel failed: %s", hr)
	}
	if hr := host.WaitHandle(ht, 0); hr != hresult.S_OK {
		t.Fatalf("Wait failed: %s", hr)
	}
	if status, _ := host.StatusHandle(ht); status != hresult.VSS_S_ASYNC_CANCELLED {
		t.Fatalf("Expected cancelled, got %s", status)
	}

	if hr := host.WaitHandle(host.Register(obj), 0); hr != hresult.E_NOINTERFACE {
		t.Fatalf("Expected E_NOINTERFACE for a non-task, got %s", hr)
	}
	if hr := host.CancelHandle(0); hr != hresult.E_POINTER {
		t.Fatalf("Expected E_POINTER for handle 0, got %s", hr)
	}
}

func TestHost_Close(t *testing.T) {
	host := NewHost()
	obj := host.NewObject("test")
	h := host.Register(obj)

	if err := host.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, ok := host.Lookup(h); ok {
		t.Fatal("Handles should be gone after Close")
	}
	if obj.Destroyed() {
		t.Fatal("Close must not release objects")
	}
}
