package wasmobj

import (
	"fmt"
	"slices"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
)

// Exported function names of the object ABI.
const (
	FuncAddRef          = "add_ref"
	FuncRelease         = "release"
	FuncQueryInterface  = "query_interface"
	FuncTaskWait        = "task_wait"
	FuncTaskQueryStatus = "task_query_status"
	FuncTaskCancel      = "task_cancel"
)

// signature declares one ABI function in WIT terms. Packed results carry
// two 32-bit values in one u64, high word first:
//
//	query_interface   -> hresult << 32 | handle
//	task_query_status -> status  << 32 | hresult
type signature struct {
	name    string
	params  []wit.Type
	results []wit.Type
}

var objectABI = []signature{
	{name: FuncAddRef, params: []wit.Type{wit.U32{}}, results: []wit.Type{wit.U32{}}},
	{name: FuncRelease, params: []wit.Type{wit.U32{}}, results: []wit.Type{wit.U32{}}},
	{name: FuncQueryInterface, params: []wit.Type{wit.U32{}, wit.U64{}, wit.U64{}}, results: []wit.Type{wit.U64{}}},
	{name: FuncTaskWait, params: []wit.Type{wit.U32{}, wit.U32{}}, results: []wit.Type{wit.S32{}}},
	{name: FuncTaskQueryStatus, params: []wit.Type{wit.U32{}}, results: []wit.Type{wit.U64{}}},
	{name: FuncTaskCancel, params: []wit.Type{wit.U32{}}, results: []wit.Type{wit.S32{}}},
}

// coreType flattens a WIT primitive to its core wasm value type.
func coreType(t wit.Type) api.ValueType {
	switch t.(type) {
	case wit.Bool, wit.U8, wit.S8, wit.U16, wit.S16, wit.U32, wit.S32, wit.Char:
		return api.ValueTypeI32
	case wit.U64, wit.S64:
		return api.ValueTypeI64
	case wit.F32:
		return api.ValueTypeF32
	case wit.F64:
		return api.ValueTypeF64
	default:
		panic(fmt.Sprintf("wasmobj: no core type for %T", t))
	}
}

func coreTypes(ts []wit.Type) []api.ValueType {
	out := make([]api.ValueType, len(ts))
	for i, t := range ts {
		out[i] = coreType(t)
	}
	return out
}

func (s signature) coreParams() []api.ValueType  { return coreTypes(s.params) }
func (s signature) coreResults() []api.ValueType { return coreTypes(s.results) }

// matches reports whether def has the flattened shape of s.
func (s signature) matches(def api.FunctionDefinition) bool {
	return slices.Equal(def.ParamTypes(), s.coreParams()) &&
		slices.Equal(def.ResultTypes(), s.coreResults())
}

func (s signature) String() string {
	return fmt.Sprintf("%s%v -> %v", s.name, valueTypeNames(s.coreParams()), valueTypeNames(s.coreResults()))
}

func valueTypeNames(ts []api.ValueType) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = api.ValueTypeName(t)
	}
	return out
}

func pack(hi, lo uint32) uint64 {
	return uint64(hi)<<32 | uint64(lo)
}

func unpack(v uint64) (hi, lo uint32) {
	return uint32(v >> 32), uint32(v)
}
