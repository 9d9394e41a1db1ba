// Package machine assembles a complete guest address space from a
// declarative Config: sparse RAM at a base address, plugin-backed
// devices, optional wasm device plugins, and the bus that routes between
// them. It owns the lifecycle of everything it builds — Close releases
// each plugin handle exactly once, along every path including
// construction failure.
//
// The execution engine holds a *Machine and issues Load/Store for every
// data access; CSR traffic goes through the hart package instead and
// never touches the bus.
package machine
