package hart

import (
	simerrors "github.com/wippyai/simcore/errors"
)

// CSRFile is the accessor for control/status registers. CSRs bypass the
// memory bus entirely; the execution engine reaches them only through
// this interface.
//
// Get and Put may have observable side effects (mode changes, interrupt
// enables), so the instruction implementations in this package call them
// in a fixed order with nothing interleaved: Validate, Get once, Put at
// most once.
type CSRFile interface {
	// Validate checks that csr exists and permits the requested access
	// mode, returning the (possibly translated) index or an
	// illegal-instruction error.
	Validate(csr uint32, write bool) (uint32, error)

	// Get reads the current value. write reports whether the enclosing
	// instruction will also write, for permission-sensitive registers.
	Get(csr uint32, write bool) (uint64, error)

	// Put writes a new value.
	Put(csr uint32, value uint64) error
}

// csrIndexBits is the width of a CSR index in the instruction encoding.
const csrIndexBits = 12

// readOnlyCSR reports whether the index is in the architecturally
// read-only range (top two index bits set).
func readOnlyCSR(csr uint32) bool {
	return csr>>(csrIndexBits-2) == 0b11
}

// CSRMap is a map-backed CSRFile for simulations that need a plain
// register store without side effects. Registers must be defined before
// use; access to an undefined index is an illegal instruction.
type CSRMap struct {
	regs map[uint32]uint64
}

// NewCSRMap returns an empty CSRMap.
func NewCSRMap() *CSRMap {
	return &CSRMap{regs: make(map[uint32]uint64)}
}

// Define installs a register at csr with an initial value. Re-defining
// replaces the value.
func (c *CSRMap) Define(csr uint32, init uint64) {
	c.regs[csr] = init
}

// Validate implements CSRFile.
func (c *CSRMap) Validate(csr uint32, write bool) (uint32, error) {
	if csr >= 1<<csrIndexBits {
		return 0, simerrors.IllegalInstruction("csr index %#x out of range", csr)
	}
	if _, ok := c.regs[csr]; !ok {
		return 0, simerrors.IllegalInstruction("csr %#x does not exist", csr)
	}
	if write && readOnlyCSR(csr) {
		return 0, simerrors.IllegalInstruction("csr %#x is read-only", csr)
	}
	return csr, nil
}

// Get implements CSRFile.
func (c *CSRMap) Get(csr uint32, write bool) (uint64, error) {
	v, ok := c.regs[csr]
	if !ok {
		return 0, simerrors.IllegalInstruction("csr %#x does not exist", csr)
	}
	return v, nil
}

// Put implements CSRFile.
func (c *CSRMap) Put(csr uint32, value uint64) error {
	if _, ok := c.regs[csr]; !ok {
		return simerrors.IllegalInstruction("csr %#x does not exist", csr)
	}
	c.regs[csr] = value
	return nil
}
