package wasmdev

import (
	"context"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	simerrors "github.com/wippyai/simcore/errors"
	"github.com/wippyai/simcore/plugin"
)

// Host compiles wasm device plugins and adapts them to the plugin ABI.
// Each registered plugin is compiled once; every device constructed from
// it gets its own module instance, so device state never leaks between
// instances.
//
// The context passed to New bounds all guest calls made on behalf of the
// devices; device Load/Store are synchronous and bounded, so a
// background context is the usual choice.
type Host struct {
	ctx     context.Context
	runtime wazero.Runtime
}

// New creates a host with a fresh wazero runtime.
func New(ctx context.Context) *Host {
	return &Host{
		ctx:     ctx,
		runtime: wazero.NewRuntime(ctx),
	}
}

// Close releases the runtime and every module instance created from it.
// All devices built from this host's plugins must be closed first.
func (h *Host) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}

// Register compiles wasmBytes and registers it in reg under name. The
// module must export the device ABI (see package doc); exports are only
// resolved at device-construction time, so a malformed module registers
// successfully but fails to allocate devices.
func (h *Host) Register(reg *plugin.Registry, name string, wasmBytes []byte) error {
	compiled, err := h.runtime.CompileModule(h.ctx, wasmBytes)
	if err != nil {
		return simerrors.Wrap(simerrors.PhasePlugin, simerrors.KindInvalidInput, err,
			"compile wasm plugin "+name)
	}

	Logger().Info("compiled wasm device plugin",
		zap.String("name", name),
		zap.Int("size", len(wasmBytes)))

	return reg.Register(name, plugin.Descriptor{
		Alloc: func(args string) any {
			mod, err := h.runtime.InstantiateModule(h.ctx, compiled,
				wazero.NewModuleConfig().WithName("").WithStartFunctions())
			if err != nil {
				Logger().Warn("wasm plugin instantiation failed",
					zap.String("name", name), zap.Error(err))
				return nil
			}

			inst := newInstance(&wazeroGuest{ctx: h.ctx, mod: mod})
			if !inst.alloc(args) {
				inst.close()
				return nil
			}
			return inst
		},
		Load: func(handle any, offset uint64, data []byte) bool {
			return handle.(*instance).load(offset, data)
		},
		Store: func(handle any, offset uint64, data []byte) bool {
			return handle.(*instance).store(offset, data)
		},
		Dealloc: func(handle any) {
			handle.(*instance).dealloc()
		},
	})
}
