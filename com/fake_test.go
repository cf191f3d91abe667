package com

import (
	"sync"

	"github.com/wippyai/comsafe/errors"
	"github.com/wippyai/comsafe/guid"
	"github.com/wippyai/comsafe/hresult"
)

type Greeter interface {
	Greet(name string) string
}

type PoliteGreeter interface {
	Greeter
	Bow() string
}

type Counter interface {
	Next() int
}

var (
	iidGreeter = guid.MustParse("{6F7E1A10-2B3C-4D5E-8F90-A1B2C3D4E5F6}")
	iidPolite  = guid.MustParse("{6F7E1A11-2B3C-4D5E-8F90-A1B2C3D4E5F6}")
	iidCounter = guid.MustParse("{6F7E1A12-2B3C-4D5E-8F90-A1B2C3D4E5F6}")

	IGreeter       = Define[Greeter]("IGreeter", iidGreeter)
	IPoliteGreeter = Derive[PoliteGreeter](IGreeter, "IPoliteGreeter", iidPolite)
	ICounter       = Define[Counter]("ICounter", iidCounter)
)

// fakeObject counts contract calls. It implements Greeter and
// PoliteGreeter but not Counter.
type fakeObject struct {
	mu       sync.Mutex
	status   map[guid.GUID]hresult.HRESULT
	nilOut   map[guid.GUID]bool
	refs     uint32
	addRefs  int
	releases int
	queries  int
}

func newFake() *fakeObject {
	return &fakeObject{
		refs:   1,
		status: make(map[guid.GUID]hresult.HRESULT),
		nilOut: make(map[guid.GUID]bool),
	}
}

func (f *fakeObject) AddRef() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addRefs++
	f.refs++
	return f.refs
}

func (f *fakeObject) Release() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	f.refs--
	return f.refs
}

func (f *fakeObject) QueryInterface(iid guid.GUID) (Unknown, hresult.HRESULT) {
	f.mu.Lock()
	f.queries++
	hr, forced := f.status[iid]
	nilOut := f.nilOut[iid]
	f.mu.Unlock()

	if forced {
		return nil, hr
	}
	if nilOut {
		return nil, hresult.S_OK
	}
	switch iid {
	case guid.IIDUnknown, iidGreeter, iidPolite:
		f.AddRef()
		return f, hresult.S_OK
	case iidCounter:
		// claims support but hands back an object without the surface
		f.AddRef()
		return f, hresult.S_OK
	}
	return nil, hresult.E_NOINTERFACE
}

func (f *fakeObject) Greet(name string) string { return "hello " + name }
func (f *fakeObject) Bow() string              { return "*bows*" }

func (f *fakeObject) counts() (refs uint32, addRefs, releases, queries int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refs, f.addRefs, f.releases, f.queries
}

func catchPanic(fn func()) (err *errors.Error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(*errors.Error)
		}
	}()
	fn()
	return nil
}
