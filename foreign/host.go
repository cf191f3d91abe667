package foreign

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/comsafe/async"
	"github.com/wippyai/comsafe/com"
	"github.com/wippyai/comsafe/guid"
	"github.com/wippyai/comsafe/hresult"
)

// Host owns a set of foreign objects and the handle table that names their
// interface pointers across a module boundary.
type Host struct {
	table      *table
	objects    []*Object
	tasks      []*Task
	violations []Violation
	observers  []Observer
	obsMu      sync.RWMutex
	mu         sync.Mutex
}

// NewHost creates an empty host.
func NewHost() *Host {
	return &Host{table: newTable()}
}

// NewObject creates an object holding one reference for the caller. It
// implements only IUnknown until Implement is called.
func (h *Host) NewObject(name string) *Object {
	o := &Object{
		host:     h,
		name:     name,
		refs:     1,
		ifaces:   make(map[guid.GUID]com.Unknown),
		failures: make(map[guid.GUID]hresult.HRESULT),
	}
	o.ifaces[guid.IIDUnknown] = o

	h.mu.Lock()
	h.objects = append(h.objects, o)
	h.mu.Unlock()

	Logger().Debug("object created", zap.String("object", name))
	h.notify(Event{Type: EventCreated, Object: o, Count: 1})
	return o
}

// NewTask creates a pending task holding one reference for the caller.
func (h *Host) NewTask(name string, opts TaskOptions) *Task {
	t := newTask(h.NewObject(name), opts)

	h.mu.Lock()
	h.tasks = append(h.tasks, t)
	h.mu.Unlock()
	return t
}

// Objects returns every object created by the host, destroyed ones
// included.
func (h *Host) Objects() []*Object {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*Object(nil), h.objects...)
}

// Violations returns the contract breaches recorded so far.
func (h *Host) Violations() []Violation {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Violation(nil), h.violations...)
}

// Stats summarizes the host.
func (h *Host) Stats() Stats {
	objects := h.Objects()

	s := Stats{
		Objects:    len(objects),
		Handles:    h.table.len(),
		Violations: len(h.Violations()),
	}
	for _, o := range objects {
		if !o.Destroyed() {
			s.Live++
		}
		a, r, q := o.Calls()
		s.AddRefs += a
		s.Releases += r
		s.Queries += q
	}
	return s
}

// Subscribe adds an observer.
func (h *Host) Subscribe(o Observer) {
	h.obsMu.Lock()
	defer h.obsMu.Unlock()
	h.observers = append(h.observers, o)
}

// Unsubscribe removes an observer.
func (h *Host) Unsubscribe(o Observer) {
	h.obsMu.Lock()
	defer h.obsMu.Unlock()
	for i, obs := range h.observers {
		if obs == o {
			h.observers = append(h.observers[:i], h.observers[i+1:]...)
			return
		}
	}
}

// Close stops task timers and forgets every handle. Objects that are still
// referenced stay usable through their Go pointers.
func (h *Host) Close() error {
	h.mu.Lock()
	tasks := append([]*Task(nil), h.tasks...)
	h.mu.Unlock()

	for _, t := range tasks {
		t.stop()
	}
	h.table.clear()
	return nil
}

func (h *Host) violate(o *Object, kind ViolationKind, op string) {
	v := Violation{Object: o.name, Op: op, Kind: kind}

	h.mu.Lock()
	h.violations = append(h.violations, v)
	h.mu.Unlock()

	Logger().Warn("contract violation",
		zap.String("object", o.name),
		zap.String("op", op),
		zap.Stringer("kind", kind))
	h.notify(Event{Type: EventViolation, Object: o, Detail: kind.String() + " in " + op})
}

func (h *Host) destroyed(o *Object) {
	h.table.removeWhere(func(u com.Unknown) bool {
		obj, ok := ObjectOf(u)
		return ok && obj == o
	})

	Logger().Debug("object destroyed", zap.String("object", o.name))
	h.notify(Event{Type: EventDestroyed, Object: o})
}

func (h *Host) notify(e Event) {
	h.obsMu.RLock()
	defer h.obsMu.RUnlock()
	for _, o := range h.observers {
		o.OnObjectEvent(e)
	}
}

// Register names an interface pointer by handle. The same pointer always
// maps to the same handle while its object is alive. Register does not add
// a reference.
func (h *Host) Register(u com.Unknown) Handle {
	return h.table.insert(u)
}

// Lookup returns the interface pointer named by handle.
func (h *Host) Lookup(handle Handle) (com.Unknown, bool) {
	return h.table.get(handle)
}

// AddRefHandle calls AddRef on the pointer named by handle.
func (h *Host) AddRefHandle(handle Handle) uint32 {
	u, ok := h.resolve(handle, "AddRef")
	if !ok {
		return 0
	}
	return u.AddRef()
}

// ReleaseHandle calls Release on the pointer named by handle.
func (h *Host) ReleaseHandle(handle Handle) uint32 {
	u, ok := h.resolve(handle, "Release")
	if !ok {
		return 0
	}
	return u.Release()
}

// QueryHandle queries the pointer named by handle and names the result.
func (h *Host) QueryHandle(handle Handle, iid guid.GUID) (Handle, hresult.HRESULT) {
	u, ok := h.resolve(handle, "QueryInterface")
	if !ok {
		return 0, hresult.E_POINTER
	}
	out, hr := u.QueryInterface(iid)
	if hr != hresult.S_OK || out == nil {
		return 0, hr
	}
	return h.Register(out), hr
}

// WaitHandle calls Wait on the task named by handle.
func (h *Host) WaitHandle(handle Handle, milliseconds uint32) hresult.HRESULT {
	t, hr := h.task(handle, "Wait")
	if t == nil {
		return hr
	}
	return t.Wait(milliseconds)
}

// StatusHandle calls QueryStatus on the task named by handle.
func (h *Host) StatusHandle(handle Handle) (status, hr hresult.HRESULT) {
	t, hr := h.task(handle, "QueryStatus")
	if t == nil {
		return 0, hr
	}
	return t.QueryStatus()
}

// CancelHandle calls Cancel on the task named by handle.
func (h *Host) CancelHandle(handle Handle) hresult.HRESULT {
	t, hr := h.task(handle, "Cancel")
	if t == nil {
		return hr
	}
	return t.Cancel()
}

func (h *Host) resolve(handle Handle, op string) (com.Unknown, bool) {
	u, ok := h.table.get(handle)
	if !ok {
		h.mu.Lock()
		h.violations = append(h.violations, Violation{Op: op, Kind: ViolationBadHandle})
		h.mu.Unlock()
		Logger().Warn("unknown handle", zap.Uint32("handle", uint32(handle)), zap.String("op", op))
		return nil, false
	}
	return u, true
}

func (h *Host) task(handle Handle, op string) (async.Task, hresult.HRESULT) {
	u, ok := h.resolve(handle, op)
	if !ok {
		return nil, hresult.E_POINTER
	}
	t, ok := u.(async.Task)
	if !ok {
		return nil, hresult.E_NOINTERFACE
	}
	return t, hresult.S_OK
}
