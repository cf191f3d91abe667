// Package wasmobj carries the object contract across a wasm module boundary
// using wazero.
//
// Interface pointers cross the boundary as 32-bit handles issued by a
// foreign.Host. Export builds a host module that serves these functions,
// and a guest module of the same shape that forwards each call to it:
//
//	add_ref(handle u32) -> u32
//	release(handle u32) -> u32
//	query_interface(handle u32, iid-hi u64, iid-lo u64) -> u64
//	task_wait(handle u32, milliseconds u32) -> s32
//	task_query_status(handle u32) -> u64
//	task_cancel(handle u32) -> s32
//
// Bind checks a guest module's exports against the same table and returns
// a Bridge whose Objects implement com.Unknown. wazero does not allow
// calling host module functions directly, so Export returns the forwarding
// guest:
//
//	mod, err := wasmobj.Export(ctx, runtime, host, "comsafe:object")
//	bridge, err := wasmobj.Bind(ctx, mod)
//
//	ref := com.Adopt(com.IUnknown, bridge.Object(handle))
//	task := com.MustQuery(ref, async.ITask)
//
// A call that fails inside the module (a trap, or a closed module) leaves
// the object's state unknown and panics with a bridge error.
package wasmobj
