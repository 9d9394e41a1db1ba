package wasmdev

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	simerrors "github.com/wippyai/simcore/errors"
)

// Guest ABI export names. A device module exports a linear memory plus
// these five functions; see the package documentation for signatures.
const (
	exportReserve = "reserve"
	exportAlloc   = "alloc"
	exportLoad    = "dev_load"
	exportStore   = "dev_store"
	exportDealloc = "dealloc"
)

// guest abstracts the instantiated module so instance logic is testable
// without a compiled wasm binary.
type guest interface {
	call(name string, args ...uint64) ([]uint64, error)
	read(ptr, n uint32) ([]byte, bool)
	write(ptr uint32, data []byte) bool
	close() error
}

// wazeroGuest adapts a live wazero module to the guest interface.
type wazeroGuest struct {
	ctx context.Context
	mod api.Module
}

func (g *wazeroGuest) call(name string, args ...uint64) ([]uint64, error) {
	fn := g.mod.ExportedFunction(name)
	if fn == nil {
		return nil, simerrors.NotFound(simerrors.PhasePlugin, "export", name)
	}
	return fn.Call(g.ctx, args...)
}

func (g *wazeroGuest) read(ptr, n uint32) ([]byte, bool) {
	memory := g.mod.Memory()
	if memory == nil {
		return nil, false
	}
	return memory.Read(ptr, n)
}

func (g *wazeroGuest) write(ptr uint32, data []byte) bool {
	memory := g.mod.Memory()
	if memory == nil {
		return false
	}
	return memory.Write(ptr, data)
}

func (g *wazeroGuest) close() error {
	return g.mod.Close(g.ctx)
}

// instance is one live device: a module instance plus the handle its
// alloc export returned.
type instance struct {
	g      guest
	handle uint64
	closed bool
}

func newInstance(g guest) *instance {
	return &instance{g: g}
}

// reserve asks the guest for a scratch buffer of n bytes in its linear
// memory and returns the pointer.
func (inst *instance) reserve(n int) (uint32, bool) {
	res, err := inst.g.call(exportReserve, uint64(n))
	if err != nil || len(res) != 1 || uint32(res[0]) == 0 {
		return 0, false
	}
	return uint32(res[0]), true
}

// alloc runs the guest's allocator with args. A zero handle is the
// guest's init failure.
func (inst *instance) alloc(args string) bool {
	ptr := uint32(0)
	if len(args) > 0 {
		p, ok := inst.reserve(len(args))
		if !ok || !inst.g.write(p, []byte(args)) {
			return false
		}
		ptr = p
	}

	res, err := inst.g.call(exportAlloc, uint64(ptr), uint64(len(args)))
	if err != nil || len(res) != 1 || res[0] == 0 {
		return false
	}
	inst.handle = res[0]
	return true
}

func (inst *instance) load(offset uint64, data []byte) bool {
	ptr, ok := inst.reserve(len(data))
	if !ok {
		return false
	}

	res, err := inst.g.call(exportLoad, inst.handle, offset, uint64(ptr), uint64(len(data)))
	if err != nil || len(res) != 1 || res[0] == 0 {
		return false
	}

	out, ok := inst.g.read(ptr, uint32(len(data)))
	if !ok {
		return false
	}
	copy(data, out)
	return true
}

func (inst *instance) store(offset uint64, data []byte) bool {
	ptr, ok := inst.reserve(len(data))
	if !ok {
		return false
	}
	if !inst.g.write(ptr, data) {
		return false
	}

	res, err := inst.g.call(exportStore, inst.handle, offset, uint64(ptr), uint64(len(data)))
	return err == nil && len(res) == 1 && res[0] != 0
}

// dealloc runs the guest's destructor and tears the module down. The
// guest call failing does not keep the module alive.
func (inst *instance) dealloc() {
	if inst.closed {
		return
	}
	inst.g.call(exportDealloc, inst.handle) // ignore error
	inst.close()
}

func (inst *instance) close() {
	if inst.closed {
		return
	}
	inst.closed = true
	inst.g.close() // ignore error
}
