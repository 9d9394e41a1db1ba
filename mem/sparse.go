package mem

import (
	simerrors "github.com/wippyai/simcore/errors"
)

// Page geometry. Fixed at the conventional 4 KiB; every address maps to
// page index addr>>PageShift and offset addr%PageSize.
const (
	PageShift = 12
	PageSize  = 1 << PageShift
)

// Sparse is guest RAM backing a fixed [0, size) range with lazily
// allocated pages. Memory cost is proportional to touched pages, not to
// the declared size, so a multi-gigabyte guest range is cheap until the
// guest actually writes it.
type Sparse struct {
	pages map[uint64][]byte
	size  uint64
}

// New creates a Sparse of the given size in bytes. The size is immutable
// and must be a positive multiple of PageSize.
func New(size uint64) (*Sparse, error) {
	if size == 0 || size%PageSize != 0 {
		return nil, simerrors.InvalidSize(size, "memory size must be a positive multiple of 4 KiB")
	}
	return &Sparse{
		pages: make(map[uint64][]byte),
		size:  size,
	}, nil
}

// Size returns the declared size of the range in bytes.
func (m *Sparse) Size() uint64 { return m.size }

// PageCount returns the number of pages allocated so far.
func (m *Sparse) PageCount() int { return len(m.pages) }

// Load implements simcore.Device.
func (m *Sparse) Load(addr uint64, data []byte) bool {
	return m.loadStore(addr, data, false)
}

// Store implements simcore.Device.
func (m *Sparse) Store(addr uint64, data []byte) bool {
	return m.loadStore(addr, data, true)
}

func (m *Sparse) loadStore(addr uint64, data []byte, store bool) bool {
	// The whole request is bounds-checked up front; nothing after this
	// point can fail, so a partially applied access is impossible.
	end := addr + uint64(len(data))
	if end < addr || end > m.size {
		return false
	}

	for len(data) > 0 {
		n := uint64(PageSize - addr%PageSize)
		if n > uint64(len(data)) {
			n = uint64(len(data))
		}

		chunk := m.contents(addr)[:n]
		if store {
			copy(chunk, data[:n])
		} else {
			copy(data[:n], chunk)
		}

		addr += n
		data = data[n:]
	}

	return true
}

// contents returns the backing bytes starting at addr and running to the
// end of addr's page, allocating a zero-filled page on first touch.
func (m *Sparse) contents(addr uint64) []byte {
	ppn, pgoff := addr>>PageShift, addr%PageSize
	page, ok := m.pages[ppn]
	if !ok {
		page = make([]byte, PageSize)
		m.pages[ppn] = page
	}
	return page[pgoff:]
}
