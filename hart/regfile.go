package hart

// XLen is the active execution width of a hart.
type XLen int

const (
	XLen32 XLen = 32
	XLen64 XLen = 64
)

// RegZero is the hardwired-zero general-purpose register.
const RegZero = 0

// RegFile is one hart's general-purpose register file. Register 0 reads
// as zero and ignores writes.
type RegFile struct {
	x [32]uint64
}

// Read returns the value of register i.
func (r *RegFile) Read(i int) uint64 {
	return r.x[i]
}

// Write sets register i. Writes to RegZero are discarded.
func (r *RegFile) Write(i int, v uint64) {
	if i != RegZero {
		r.x[i] = v
	}
}
