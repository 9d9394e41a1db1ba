package hart

// Hart is one simulated execution context: a register file, a CSR
// accessor and the active execution width. It is single-threaded by
// contract; one instruction runs to completion before the next begins.
type Hart struct {
	Regs RegFile

	csrs      CSRFile
	xlen      XLen
	serialize bool
}

// New creates a hart of the given width over csrs.
func New(xlen XLen, csrs CSRFile) *Hart {
	return &Hart{csrs: csrs, xlen: xlen}
}

// CSRs returns the hart's CSR accessor.
func (h *Hart) CSRs() CSRFile { return h.csrs }

// XLen returns the active execution width.
func (h *Hart) XLen() XLen { return h.xlen }

// TakeSerialization reports whether the last instruction established a
// serialization point, and clears the flag. The run loop consumes this
// after each instruction: a set flag means no later instruction's
// effects may be observed before this one's completion, so any
// lookahead or cached execution state must be flushed.
func (h *Hart) TakeSerialization() bool {
	s := h.serialize
	h.serialize = false
	return s
}

// sextXLen narrows v to the active width, sign-extending back to 64
// bits when running RV32.
func (h *Hart) sextXLen(v uint64) uint64 {
	if h.xlen == XLen32 {
		return uint64(int64(int32(uint32(v))))
	}
	return v
}
