// Package errors provides structured error types for the simcore library.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). Only setup-time misuse and execution-control
// conditions are errors: duplicate plugin registration, malformed
// construction parameters, CSR validation failures. A guest memory
// access that misses or lands out of range is NOT an error — it is a
// false return across the Device boundary, which the execution engine
// converts into the guest's own access-fault trap.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.InvalidSize(size, "memory size must be a positive multiple of 4 KiB")
//	err := errors.UnknownPlugin("uart")
//	err := errors.PluginInit("file", "w:/dev/null")
//
// All errors implement the standard error interface and support
// errors.Is/As. Is matches on Phase and Kind, so sentinel comparisons
// work without sharing instances:
//
//	if errors.Is(err, &simerrors.Error{Phase: simerrors.PhaseConstruct, Kind: simerrors.KindUnknownPlugin}) {
//	    // name was never registered
//	}
package errors
