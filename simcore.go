package simcore

// Device is the capability every addressable component of the guest
// implements. Offsets are relative to the device's base address on the
// bus; the access width is len(data).
//
// Implementations must not panic on out-of-range input. A false return
// means the access failed (out of range, unsupported, read-only) and the
// caller turns it into a guest-visible fault.
type Device interface {
	// Load copies len(data) bytes at offset from the device into data.
	Load(offset uint64, data []byte) bool

	// Store copies len(data) bytes from data into the device at offset.
	Store(offset uint64, data []byte) bool
}

// Closer is optionally implemented by devices that hold resources
// (plugin handles, mapped files). The owner must call Close exactly once
// at end of life.
type Closer interface {
	Close() error
}
