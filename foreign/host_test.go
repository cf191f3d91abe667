package foreign

import (
	"math"
	"testing"

	"github.com/wippyai/comsafe/guid"
	"github.com/wippyai/comsafe/hresult"
)

var iidGreeter = guid.MustParse("{3C1B6F0A-7D2E-4E4B-9A51-0F7B2D8C6E11}")

type greeter struct {
	*Object
}

func (g greeter) Greet(name string) string { return "hello " + name }

type testObserver struct {
	events []Event
}

func (o *testObserver) OnObjectEvent(e Event) {
	o.events = append(o.events, e)
}

func TestObject_Lifecycle(t *testing.T) {
	host := NewHost()
	obj := host.NewObject("test")

	if obj.RefCount() != 1 {
		t.Fatalf("Expected initial count 1, got %d", obj.RefCount())
	}
	if n := obj.AddRef(); n != 2 {
		t.Fatalf("Expected AddRef to return 2, got %d", n)
	}
	if n := obj.Release(); n != 1 {
		t.Fatalf("Expected Release to return 1, got %d", n)
	}
	if obj.Destroyed() {
		t.Fatal("Object destroyed while referenced")
	}
	if n := obj.Release(); n != 0 {
		t.Fatalf("Expected Release to return 0, got %d", n)
	}
	if !obj.Destroyed() {
		t.Fatal("Expected object to be destroyed")
	}

	// Release after destruction is recorded, not applied
	obj.Release()
	v := host.Violations()
	if len(v) != 1 {
		t.Fatalf("Expected 1 violation, got %d", len(v))
	}
	if v[0].Kind != ViolationUseAfterFree || v[0].Op != "Release" || v[0].Object != "test" {
		t.Fatalf("Unexpected violation: %+v", v[0])
	}
}

func TestObject_Query(t *testing.T) {
	host := NewHost()
	obj := host.NewObject("test")
	g := greeter{obj}
	obj.Implement(iidGreeter, g)

	out, hr := obj.QueryInterface(iidGreeter)
	if hr != hresult.S_OK {
		t.Fatalf("Expected S_OK, got %s", hr)
	}
	if out != g {
		t.Fatal("Expected registered surface")
	}
	if obj.RefCount() != 2 {
		t.Fatalf("Expected count 2 after query, got %d", obj.RefCount())
	}

	unk, hr := g.QueryInterface(guid.IIDUnknown)
	if hr != hresult.S_OK || unk != obj {
		t.Fatal("IUnknown must return the object itself")
	}

	out, hr = obj.QueryInterface(guid.New())
	if hr != hresult.E_NOINTERFACE || out != nil {
		t.Fatalf("Expected E_NOINTERFACE, got %s", hr)
	}
	if obj.RefCount() != 3 {
		t.Fatalf("Unsupported query changed the count: %d", obj.RefCount())
	}

	obj.FailQuery(iidGreeter, hresult.E_FAIL)
	out, hr = obj.QueryInterface(iidGreeter)
	if hr != hresult.E_FAIL || out != nil {
		t.Fatalf("Expected injected E_FAIL, got %s", hr)
	}

	addRefs, releases, queries := obj.Calls()
	if addRefs != 2 || releases != 0 || queries != 4 {
		t.Fatalf("Unexpected calls: addRefs=%d releases=%d queries=%d", addRefs, releases, queries)
	}
}

func TestObject_CounterWrap(t *testing.T) {
	host := NewHost()
	obj := host.NewObject("test")
	obj.SetRefCount(math.MaxUint32)

	if n := obj.AddRef(); n != 0 {
		t.Fatalf("Expected wrapped count 0, got %d", n)
	}
	v := host.Violations()
	if len(v) != 1 || v[0].Kind != ViolationCounterWrap {
		t.Fatalf("Expected counter wrap violation, got %+v", v)
	}
}

func TestHost_Observer(t *testing.T) {
	host := NewHost()
	obs := &testObserver{}
	host.Subscribe(obs)

	obj := host.NewObject("test")
	obj.AddRef()
	obj.QueryInterface(guid.New())
	obj.Release()
	obj.Release()

	want := []EventType{EventCreated, EventAddRef, EventQuery, EventRelease, EventRelease, EventDestroyed}
	if len(obs.events) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(obs.events))
	}
	for i, e := range obs.events {
		if e.Type != want[i] {
			t.Fatalf("Event %d: expected %s, got %s", i, want[i], e.Type)
		}
		if e.Object != obj {
			t.Fatalf("Event %d: wrong object", i)
		}
	}
	if obs.events[2].Result != hresult.E_NOINTERFACE {
		t.Fatal("Query event should carry the result")
	}

	host.Unsubscribe(obs)
	host.NewObject("quiet")
	if len(obs.events) != len(want) {
		t.Fatal("Unsubscribed observer still notified")
	}
}

func TestHost_Stats(t *testing.T) {
	host := NewHost()
	a := host.NewObject("a")
	b := host.NewObject("b")
	a.AddRef()
	b.Release()
	b.Release()
	host.Register(a)

	s := host.Stats()
	if s.Objects != 2 || s.Live != 1 || s.Handles != 1 {
		t.Fatalf("Unexpected stats: %+v", s)
	}
	if s.AddRefs != 1 || s.Releases != 1 || s.Violations != 1 {
		t.Fatalf("Unexpected stats: %+v", s)
	}
}
