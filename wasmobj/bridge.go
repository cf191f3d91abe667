package wasmobj

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/comsafe/async"
	"github.com/wippyai/comsafe/com"
	"github.com/wippyai/comsafe/errors"
	"github.com/wippyai/comsafe/foreign"
	"github.com/wippyai/comsafe/guid"
	"github.com/wippyai/comsafe/hresult"
)

// Bridge reaches foreign objects through a module that exports the object
// ABI. Objects returned by a Bridge satisfy com.Unknown, so they can be
// adopted like in-process objects.
//
// The contract methods carry no context, so a Bridge calls the module with
// the context given to Bind.
type Bridge struct {
	ctx      context.Context
	mod      api.Module
	surfaces map[guid.GUID]func(Object) com.Unknown
	mu       sync.RWMutex
}

// Bind checks that mod exports every ABI function with the declared
// signature. Missing functions are reported together as a
// *errors.MissingExportsError.
//
// mod must be a guest module such as the one Export returns. A host module
// is rejected because wazero does not allow calling into it.
func Bind(ctx context.Context, mod api.Module) (*Bridge, error) {
	var missing []string
	for _, sig := range objectABI {
		fn, err := exportedFunction(mod, sig.name)
		if err != nil {
			return nil, err
		}
		if fn == nil {
			missing = append(missing, mod.Name()+"#"+sig.name)
			continue
		}
		if !sig.matches(fn.Definition()) {
			return nil, errors.New(errors.PhaseBridge, errors.KindSignatureMismatch).
				Detail("%s#%s: want %s", mod.Name(), sig.name, sig).
				Build()
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingExportsError(missing)
	}

	b := &Bridge{
		ctx:      ctx,
		mod:      mod,
		surfaces: make(map[guid.GUID]func(Object) com.Unknown),
	}
	b.Implement(async.ITask.IID(), func(o Object) com.Unknown { return TaskObject{o} })

	Logger().Debug("object ABI bound", zap.String("module", mod.Name()))
	return b, nil
}

// exportedFunction looks up name, turning wazero's host-module panic into
// an error.
func exportedFunction(mod api.Module, name string) (fn api.Function, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.PhaseBridge, errors.KindInvalidInput).
				Detail("%s is a host module and cannot be bound: %v", mod.Name(), r).
				Build()
		}
	}()
	return mod.ExportedFunction(name), nil
}

// Implement registers how pointers returned for iid are wrapped. Without a
// registration a query result is a plain Object.
func (b *Bridge) Implement(iid guid.GUID, wrap func(Object) com.Unknown) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.surfaces[iid] = wrap
}

// Object returns the object named by handle. It adds no reference.
func (b *Bridge) Object(handle foreign.Handle) Object {
	return Object{b: b, h: handle}
}

// call invokes one ABI function. A failed call means the module is gone or
// trapped, which no caller can recover from.
func (b *Bridge) call(name string, params ...uint64) uint64 {
	fn := b.mod.ExportedFunction(name)
	if fn == nil {
		panic(errors.New(errors.PhaseBridge, errors.KindMissingExport).
			Detail("%s#%s", b.mod.Name(), name).
			Build())
	}
	res, err := fn.Call(b.ctx, params...)
	if err != nil {
		Logger().Error("object ABI call failed", zap.String("func", name), zap.Error(err))
		panic(errors.Wrap(errors.PhaseBridge, errors.KindContractViolation, err, name))
	}
	return res[0]
}

func (b *Bridge) wrap(o Object, iid guid.GUID) com.Unknown {
	b.mu.RLock()
	fn := b.surfaces[iid]
	b.mu.RUnlock()
	if fn == nil {
		return o
	}
	return fn(o)
}

// Object is an interface pointer living behind a Bridge. It is a small
// comparable value; two Objects are equal when they name the same pointer.
type Object struct {
	b *Bridge
	h foreign.Handle
}

// Handle returns the handle the object is named by.
func (o Object) Handle() foreign.Handle { return o.h }

// AddRef implements com.Unknown.
func (o Object) AddRef() uint32 {
	return uint32(o.b.call(FuncAddRef, uint64(o.h)))
}

// Release implements com.Unknown.
func (o Object) Release() uint32 {
	return uint32(o.b.call(FuncRelease, uint64(o.h)))
}

// QueryInterface implements com.Unknown.
func (o Object) QueryInterface(iid guid.GUID) (com.Unknown, hresult.HRESULT) {
	hi, lo := iid.Halves()
	code, handle := unpack(o.b.call(FuncQueryInterface, uint64(o.h), hi, lo))
	hr := hresult.FromUint32(code)
	if hr != hresult.S_OK || handle == 0 {
		return nil, hr
	}
	return o.b.wrap(Object{b: o.b, h: foreign.Handle(handle)}, iid), hr
}

// TaskObject is a task pointer living behind a Bridge.
type TaskObject struct {
	Object
}

var _ async.Task = TaskObject{}

// Wait implements async.Task.
func (t TaskObject) Wait(milliseconds uint32) hresult.HRESULT {
	return hresult.HRESULT(api.DecodeI32(t.b.call(FuncTaskWait, uint64(t.h), api.EncodeU32(milliseconds))))
}

// QueryStatus implements async.Task.
func (t TaskObject) QueryStatus() (status, hr hresult.HRESULT) {
	s, h := unpack(t.b.call(FuncTaskQueryStatus, uint64(t.h)))
	return hresult.FromUint32(s), hresult.FromUint32(h)
}

// Cancel implements async.Task.
func (t TaskObject) Cancel() hresult.HRESULT {
	return hresult.HRESULT(api.DecodeI32(t.b.call(FuncTaskCancel, uint64(t.h))))
}
