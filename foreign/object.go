package foreign

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/comsafe/com"
	"github.com/wippyai/comsafe/guid"
	"github.com/wippyai/comsafe/hresult"
)

// Object is a reference-counted object living on the foreign side of the
// boundary. It starts with one reference, owned by whoever created it.
//
// Interface surfaces are Go values that embed *Object and add the methods of
// one capability:
//
//	type greeter struct{ *foreign.Object }
//
//	func (g greeter) Greet(name string) string { return "hello " + name }
//
//	obj := host.NewObject("greeter")
//	obj.Implement(IGreeter.IID(), greeter{obj})
//
// Surfaces must be comparable so the host can name them by handle.
type Object struct {
	host      *Host
	ifaces    map[guid.GUID]com.Unknown
	failures  map[guid.GUID]hresult.HRESULT
	onDestroy func()
	name      string
	mu        sync.Mutex
	refs      uint32
	addRefs   int
	releases  int
	queries   int
	destroyed bool
}

type owner interface {
	object() *Object
}

func (o *Object) object() *Object { return o }

// ObjectOf returns the object behind an interface pointer produced by this
// package.
func ObjectOf(u com.Unknown) (*Object, bool) {
	if ow, ok := u.(owner); ok {
		return ow.object(), true
	}
	return nil, false
}

// Name returns the diagnostic name given at creation.
func (o *Object) Name() string { return o.name }

// Implement exposes surface for iid. Querying iid returns surface with a
// new reference.
func (o *Object) Implement(iid guid.GUID, surface com.Unknown) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ifaces[iid] = surface
}

// Surface returns the pointer registered for iid without adding a
// reference. Use it to hand the creator's reference to com.Adopt.
func (o *Object) Surface(iid guid.GUID) (com.Unknown, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.ifaces[iid]
	return s, ok
}

// FailQuery makes every query for iid report hr with no pointer, which
// lets tests exercise statuses outside the contract.
func (o *Object) FailQuery(iid guid.GUID, hr hresult.HRESULT) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures[iid] = hr
}

// SetRefCount overwrites the foreign count, simulating an object close to
// the limit of its counter.
func (o *Object) SetRefCount(n uint32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.refs = n
}

// AddRef implements com.Unknown.
func (o *Object) AddRef() uint32 {
	o.mu.Lock()
	if o.destroyed {
		o.mu.Unlock()
		o.host.violate(o, ViolationUseAfterFree, "AddRef")
		return 0
	}
	wrapped := o.refs == math.MaxUint32
	o.refs++
	o.addRefs++
	n := o.refs
	o.mu.Unlock()

	if wrapped {
		o.host.violate(o, ViolationCounterWrap, "AddRef")
	}
	o.host.notify(Event{Type: EventAddRef, Object: o, Count: n})
	return n
}

// Release implements com.Unknown. The object is destroyed when its count
// reaches zero.
func (o *Object) Release() uint32 {
	o.mu.Lock()
	if o.destroyed {
		o.mu.Unlock()
		o.host.violate(o, ViolationUseAfterFree, "Release")
		return 0
	}
	o.refs--
	o.releases++
	n := o.refs
	if n == 0 {
		o.destroyed = true
	}
	onDestroy := o.onDestroy
	o.mu.Unlock()

	o.host.notify(Event{Type: EventRelease, Object: o, Count: n})
	if n == 0 {
		if onDestroy != nil {
			onDestroy()
		}
		o.host.destroyed(o)
	}
	return n
}

// QueryInterface implements com.Unknown.
func (o *Object) QueryInterface(iid guid.GUID) (com.Unknown, hresult.HRESULT) {
	o.mu.Lock()
	if o.destroyed {
		o.mu.Unlock()
		o.host.violate(o, ViolationUseAfterFree, "QueryInterface")
		return nil, hresult.E_UNEXPECTED
	}
	o.queries++

	var (
		out com.Unknown
		hr  hresult.HRESULT
	)
	if forced, ok := o.failures[iid]; ok {
		hr = forced
	} else if s, ok := o.ifaces[iid]; ok {
		out, hr = s, hresult.S_OK
		o.refs++
		o.addRefs++
	} else {
		hr = hresult.E_NOINTERFACE
	}
	n := o.refs
	o.mu.Unlock()

	Logger().Debug("query",
		zap.String("object", o.name),
		zap.Stringer("iid", iid),
		zap.Stringer("result", hr))
	o.host.notify(Event{Type: EventQuery, Object: o, IID: iid, Result: hr, Count: n})
	return out, hr
}

// RefCount returns the current foreign count.
func (o *Object) RefCount() uint32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.refs
}

// Destroyed reports whether the count has reached zero.
func (o *Object) Destroyed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.destroyed
}

// Calls returns how many AddRef, Release and QueryInterface calls the
// object has seen. References handed out by a successful query count as
// add-refs.
func (o *Object) Calls() (addRefs, releases, queries int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.addRefs, o.releases, o.queries
}
