// Package simcore models the physical address space of a simulated guest
// machine: RAM, memory-mapped devices, and the bus that routes every
// load/store an instruction-execution engine issues.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	simcore/          Root package with the Device capability interface
//	├── machine/      High-level API assembling a bus, RAM and devices
//	├── bus/          Address-ordered device bus ("price is right" routing)
//	├── mem/          Sparse page-backed guest RAM
//	├── plugin/       MMIO plugin registry, plugin devices, file plugin
//	├── wasmdev/      wazero-backed plugin host for wasm guest devices
//	├── hart/         Register file and CSR read-modify-write accessors
//	└── errors/       Structured error types for setup-time failures
//
// # Quick Start
//
// Assemble a machine with 16 MiB of RAM and a file-backed ROM:
//
//	m, err := machine.New(ctx, machine.Config{
//	    RAMSize: 16 << 20,
//	    RAMBase: 0x8000_0000,
//	    Devices: []machine.DeviceConfig{
//	        {Plugin: "file", Base: 0x1000_0000, Args: "boot.rom"},
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Close(ctx)
//
//	buf := make([]byte, 4)
//	if !m.Load(0x8000_0000, buf) {
//	    // guest-visible access fault
//	}
//
// # Memory Model
//
// The model is functional (untimed): a load or store either completes as
// a byte-exact copy or fails as a whole. Failure is signalled by a bool,
// never by a panic, and the execution engine is expected to turn a false
// result into the guest's own access-fault trap.
//
// # Thread Safety
//
// A machine is single-writer by contract. Sharing a bus or memory between
// simulated harts requires external serialization; only the plugin
// registry locks internally, and it can be treated as read-only once
// setup completes.
package simcore
