package wasmobj

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/comsafe/errors"
	"github.com/wippyai/comsafe/foreign"
	"github.com/wippyai/comsafe/guid"
	internalwasm "github.com/wippyai/comsafe/wasmobj/internal/wasm"
)

// hostSuffix names the host module behind an exported object ABI.
const hostSuffix = ".host"

// Export serves the object ABI for every handle registered with host. It
// instantiates the Go functions as a host module named name+".host" and a
// forwarding guest module named name, and returns the guest: host module
// functions cannot be called through ExportedFunction.
func Export(ctx context.Context, r wazero.Runtime, host *foreign.Host, name string) (api.Module, error) {
	handlers := map[string]api.GoModuleFunc{
		FuncAddRef: func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = uint64(host.AddRefHandle(handleArg(stack[0])))
		},
		FuncRelease: func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = uint64(host.ReleaseHandle(handleArg(stack[0])))
		},
		FuncQueryInterface: func(_ context.Context, _ api.Module, stack []uint64) {
			out, hr := host.QueryHandle(handleArg(stack[0]), guid.FromHalves(stack[1], stack[2]))
			stack[0] = pack(hr.Uint32(), uint32(out))
		},
		FuncTaskWait: func(_ context.Context, _ api.Module, stack []uint64) {
			hr := host.WaitHandle(handleArg(stack[0]), api.DecodeU32(stack[1]))
			stack[0] = api.EncodeI32(int32(hr))
		},
		FuncTaskQueryStatus: func(_ context.Context, _ api.Module, stack []uint64) {
			status, hr := host.StatusHandle(handleArg(stack[0]))
			stack[0] = pack(status.Uint32(), hr.Uint32())
		},
		FuncTaskCancel: func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(int32(host.CancelHandle(handleArg(stack[0]))))
		},
	}

	mod, err := exportFuncs(ctx, r, name, objectABI, handlers)
	if err != nil {
		return nil, err
	}

	Logger().Debug("object ABI exported", zap.String("module", name), zap.Int("functions", len(objectABI)))
	return mod, nil
}

// exportFuncs instantiates handlers under sigs as a host module and wraps
// them in a forwarding guest module named name.
func exportFuncs(ctx context.Context, r wazero.Runtime, name string, sigs []signature, handlers map[string]api.GoModuleFunc) (api.Module, error) {
	hostName := name + hostSuffix

	builder := r.NewHostModuleBuilder(hostName)
	fwd := internalwasm.NewForwarderBuilder(hostName)
	for _, sig := range sigs {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(handlers[sig.name], sig.coreParams(), sig.coreResults()).
			Export(sig.name)
		fwd.AddFunc(sig.name, sig.coreParams(), sig.coreResults())
	}

	if _, err := builder.Instantiate(ctx); err != nil {
		return nil, errors.Wrap(errors.PhaseBridge, errors.KindInvalidInput, err, "instantiate host module "+hostName)
	}

	mod, err := r.InstantiateWithConfig(ctx, fwd.Build(), wazero.NewModuleConfig().WithName(name))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBridge, errors.KindInvalidInput, err, "instantiate forwarding module "+name)
	}
	return mod, nil
}

func handleArg(v uint64) foreign.Handle {
	return foreign.Handle(api.DecodeU32(v))
}
