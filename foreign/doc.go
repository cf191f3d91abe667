// Package foreign hosts reference-counted objects that honor the com.Unknown
// contract without any native runtime behind them.
//
// Objects live in a Host. Each starts with one reference owned by its
// creator and is destroyed when the count reaches zero:
//
//	host := foreign.NewHost()
//	obj := host.NewObject("greeter")
//	obj.Implement(IGreeter.IID(), greeter{obj})
//
//	raw, _ := obj.Surface(IGreeter.IID())
//	r := com.Adopt(IGreeter, raw)
//	defer r.Release()
//
// # Contract Breaches
//
// Calls a native object could not survive, such as a Release after the
// count reached zero or an AddRef that wraps the 32-bit counter, are
// recorded as Violations instead. Tests assert on them:
//
//	if v := host.Violations(); len(v) != 0 {
//	    t.Fatalf("violations: %v", v)
//	}
//
// # Tasks
//
// NewTask creates an object implementing async.Task. Its progress belongs
// to the host: a timer settles it after TaskOptions.Duration, and Complete,
// Fail and Cancel settle it explicitly. Terminal states never change.
//
// # Handles
//
// Register names an interface pointer with a 32-bit Handle, so it can cross
// a boundary that carries only integers, such as a wasm module's imports.
// The *Handle methods resolve a handle and forward one contract call. The
// handles of a destroyed object are forgotten, and later calls with them
// are recorded as ViolationBadHandle.
//
// # Observers
//
// Observers receive an Event for every contract call:
//
//	host.Subscribe(foreign.ObserverFunc(func(e foreign.Event) {
//	    log.Printf("%s %s count=%d", e.Object.Name(), e.Type, e.Count)
//	}))
package foreign
