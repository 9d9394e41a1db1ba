package hart

// CSR read-modify-write instructions. Each one is a single atomic step
// relative to any side effects the register access may trigger: the CSR
// is read exactly once, the write (if any) happens before the
// destination register update, and no other register access interleaves.
// Every variant ends with a serialization point because a CSR write can
// change execution mode or interrupt enablement.

// CSRRS sets in csr the bits of source register rs1 and leaves the
// pre-modification value in rd. When rs1 is the hardwired-zero register
// the operation carries no write intent: it validates and executes as a
// pure read, so read-only CSRs are legal targets.
func (h *Hart) CSRRS(csr uint32, rd, rs1 int) error {
	return h.csrReadModifyWrite(csr, rd, rs1 != RegZero, func(old uint64) uint64 {
		return old | h.Regs.Read(rs1)
	})
}

// CSRRC clears in csr the bits of source register rs1; otherwise as CSRRS.
func (h *Hart) CSRRC(csr uint32, rd, rs1 int) error {
	return h.csrReadModifyWrite(csr, rd, rs1 != RegZero, func(old uint64) uint64 {
		return old &^ h.Regs.Read(rs1)
	})
}

// CSRRSI sets in csr the bits of the 5-bit immediate zimm. A zero
// immediate carries no write intent.
func (h *Hart) CSRRSI(csr uint32, rd int, zimm uint32) error {
	return h.csrReadModifyWrite(csr, rd, zimm != 0, func(old uint64) uint64 {
		return old | uint64(zimm)
	})
}

// CSRRCI clears in csr the bits of the 5-bit immediate zimm.
func (h *Hart) CSRRCI(csr uint32, rd int, zimm uint32) error {
	return h.csrReadModifyWrite(csr, rd, zimm != 0, func(old uint64) uint64 {
		return old &^ uint64(zimm)
	})
}

func (h *Hart) csrReadModifyWrite(csr uint32, rd int, write bool, compute func(uint64) uint64) error {
	idx, err := h.csrs.Validate(csr, write)
	if err != nil {
		return err
	}

	old, err := h.csrs.Get(idx, write)
	if err != nil {
		return err
	}

	if write {
		if err := h.csrs.Put(idx, compute(old)); err != nil {
			return err
		}
	}

	h.Regs.Write(rd, h.sextXLen(old))
	h.serialize = true
	return nil
}
