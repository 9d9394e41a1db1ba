// Package plugin implements the MMIO plugin mechanism: a registry of
// named device implementations and the device wrapper that dispatches
// bus accesses through a plugin's four-function vtable.
//
// # Plugin ABI
//
// A plugin is a Descriptor of four functions:
//
//	Alloc(args)   -> handle or nil     parse args, build an instance
//	Load(handle, offset, data) -> bool read from the instance
//	Store(handle, offset, data) -> bool write to the instance
//	Dealloc(handle)                    release the instance
//
// The handle is opaque to the core. Plugins define their own args
// mini-syntax; the built-in file plugin accepts ["w:"]filename.
//
// # Registry Lifecycle
//
// The registry is an explicit object, not process-global state. Register
// built-ins first, then user plugins, then construct devices:
//
//	reg := plugin.NewRegistry()
//	if err := plugin.RegisterBuiltins(reg); err != nil { ... }
//
//	dev, err := plugin.NewDevice(reg, "file", "w:disk.img")
//	if err != nil { ... }
//	defer dev.Close()
//
// Registration is append-only; names are never unregistered and a
// duplicate registration is an error. NewDevice distinguishes "name not
// registered" (unknown_plugin) from "plugin rejected these args"
// (plugin_init).
package plugin
