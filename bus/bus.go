package bus

import (
	"sort"

	"github.com/wippyai/simcore"
)

type entry struct {
	base uint64
	dev  simcore.Device
}

// Bus routes absolute guest physical addresses to the device owning the
// surrounding address range. Entries are kept sorted by base address so
// resolution is a binary search; this sits on the hot path of every
// simulated memory access.
type Bus struct {
	entries []entry
}

// New returns an empty bus. Lookups on an empty bus always fail.
func New() *Bus {
	return &Bus{}
}

// AddDevice registers dev at base. Re-adding the same base replaces the
// previous device; partially overlapping ranges are not detected — the
// routing below is defined purely by nearest preceding base.
func (b *Bus) AddDevice(base uint64, dev simcore.Device) {
	i := sort.Search(len(b.entries), func(i int) bool {
		return b.entries[i].base >= base
	})
	if i < len(b.entries) && b.entries[i].base == base {
		b.entries[i].dev = dev
		return
	}
	b.entries = append(b.entries, entry{})
	copy(b.entries[i+1:], b.entries[i:])
	b.entries[i] = entry{base: base, dev: dev}
}

// Len returns the number of registered devices.
func (b *Bus) Len() int { return len(b.entries) }

// resolve finds the entry with the greatest base <= addr: locate the
// first base strictly greater than addr, then step back one (price-is-
// right search). Fails when the bus is empty or every base is > addr.
func (b *Bus) resolve(addr uint64) (entry, bool) {
	i := sort.Search(len(b.entries), func(i int) bool {
		return b.entries[i].base > addr
	})
	if i == 0 {
		return entry{}, false
	}
	return b.entries[i-1], true
}

// Load routes a load at addr to the owning device. Returns false without
// touching data when no device owns addr; otherwise forwards the
// device-relative access and returns the device's result verbatim. The
// bus does no bounds checking of its own — range validation belongs to
// the device.
func (b *Bus) Load(addr uint64, data []byte) bool {
	e, ok := b.resolve(addr)
	if !ok {
		return false
	}
	return e.dev.Load(addr-e.base, data)
}

// Store routes a store at addr to the owning device. See Load.
func (b *Bus) Store(addr uint64, data []byte) bool {
	e, ok := b.resolve(addr)
	if !ok {
		return false
	}
	return e.dev.Store(addr-e.base, data)
}

// FindDevice returns the base address and device owning addr, or (0, nil)
// when resolution fails. It lets engine code reason about ownership
// without performing an access.
func (b *Bus) FindDevice(addr uint64) (uint64, simcore.Device) {
	e, ok := b.resolve(addr)
	if !ok {
		return 0, nil
	}
	return e.base, e.dev
}
