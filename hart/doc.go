// Package hart models the instruction-side view of addressable state
// that lives outside the memory bus: the general-purpose register file
// and the control/status registers.
//
// CSR accesses go through the CSRFile accessor, never through the bus.
// The read-modify-write instructions (CSRRS, CSRRC and their immediate
// forms) implement the atomic contract the execution engine relies on:
// validate, read once, conditionally write, deposit the old value in the
// destination register, then establish a serialization point. An access
// whose source operand is the hardwired-zero register (or a zero
// immediate) carries no write intent and is permission-checked as a
// pure read.
package hart
