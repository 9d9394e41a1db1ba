// Package wasmdev lets independently compiled WebAssembly modules act as
// memory-mapped devices, without recompiling the core. A Host compiles a
// module once, registers it as a named plugin, and instantiates one
// sandboxed module instance per constructed device.
//
// # Guest ABI
//
// A device module exports a linear memory named "memory" plus five
// functions (wasm core types; i32 unless noted):
//
//	reserve(len) -> ptr            scratch buffer in guest memory, 0 fails
//	alloc(args_ptr, args_len) -> handle (i64)   0 means init failure
//	dev_load(handle: i64, offset: i64, ptr, len) -> ok
//	dev_store(handle: i64, offset: i64, ptr, len) -> ok
//	dealloc(handle: i64)
//
// The host stages access buffers and the args string through reserve:
// for a store it writes the bytes into guest memory before the call, for
// a load it reads them back after. Offsets, widths and results otherwise
// forward verbatim, so a wasm device has exactly the same contract as a
// native plugin: it signals out-of-range or unsupported accesses by
// returning 0, never by trapping.
//
// # Usage
//
//	host := wasmdev.New(ctx)
//	defer host.Close(ctx)
//
//	if err := host.Register(reg, "uart", uartWasm); err != nil { ... }
//	dev, err := plugin.NewDevice(reg, "uart", "baud=115200")
package wasmdev
