package machine

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/simcore"
	"github.com/wippyai/simcore/bus"
	simerrors "github.com/wippyai/simcore/errors"
	"github.com/wippyai/simcore/mem"
	"github.com/wippyai/simcore/plugin"
	"github.com/wippyai/simcore/wasmdev"
)

// DeviceConfig places one plugin-backed device on the bus.
type DeviceConfig struct {
	// Plugin is the registered plugin name.
	Plugin string
	// Base is the device's bus base address.
	Base uint64
	// Args is the plugin's construction argument string.
	Args string
}

// WASMPluginConfig registers one wasm module as a device plugin before
// devices are constructed.
type WASMPluginConfig struct {
	Name   string
	Module []byte
}

// Config describes a machine's address space.
type Config struct {
	// RAMSize is the guest RAM size in bytes; it must be a positive
	// multiple of the page size when RAM is configured. Zero means no
	// RAM device.
	RAMSize uint64
	// RAMBase is the bus base address of guest RAM.
	RAMBase uint64
	// Devices are plugin-backed devices, constructed in order.
	Devices []DeviceConfig
	// WASMPlugins are wasm device plugins, registered before any device
	// is constructed. Names must not collide with built-in plugins.
	WASMPlugins []WASMPluginConfig
	// Registry overrides the plugin registry. When nil a fresh registry
	// with the built-in plugins is used.
	Registry *plugin.Registry
}

// DeviceInfo describes one placed device, for diagnostics and tooling.
type DeviceInfo struct {
	Name string
	Base uint64
}

// Machine is an assembled guest address space: a bus with RAM and
// configured devices, plus ownership of every resource behind them.
type Machine struct {
	bus      *bus.Bus
	ram      *mem.Sparse
	registry *plugin.Registry
	host     *wasmdev.Host
	devices  []simcore.Closer
	info     []DeviceInfo
	closed   bool
}

// New assembles a machine from cfg. On any failure every resource
// acquired so far is released before the error returns.
func New(ctx context.Context, cfg Config) (*Machine, error) {
	m := &Machine{
		bus:      bus.New(),
		registry: cfg.Registry,
	}

	if m.registry == nil {
		m.registry = plugin.NewRegistry()
		if err := plugin.RegisterBuiltins(m.registry); err != nil {
			return nil, err
		}
	}

	if len(cfg.WASMPlugins) > 0 {
		m.host = wasmdev.New(ctx)
		for _, wp := range cfg.WASMPlugins {
			if err := m.host.Register(m.registry, wp.Name, wp.Module); err != nil {
				m.Close(ctx)
				return nil, err
			}
		}
	}

	if cfg.RAMSize > 0 {
		ram, err := mem.New(cfg.RAMSize)
		if err != nil {
			m.Close(ctx)
			return nil, err
		}
		m.ram = ram
		m.bus.AddDevice(cfg.RAMBase, ram)
		m.info = append(m.info, DeviceInfo{Name: "ram", Base: cfg.RAMBase})
		Logger().Info("guest ram configured",
			zap.Uint64("base", cfg.RAMBase),
			zap.Uint64("size", cfg.RAMSize))
	}

	for _, dc := range cfg.Devices {
		dev, err := plugin.NewDevice(m.registry, dc.Plugin, dc.Args)
		if err != nil {
			m.Close(ctx)
			return nil, err
		}
		m.devices = append(m.devices, dev)
		m.bus.AddDevice(dc.Base, dev)
		m.info = append(m.info, DeviceInfo{Name: dc.Plugin, Base: dc.Base})
		Logger().Info("device configured",
			zap.String("plugin", dc.Plugin),
			zap.Uint64("base", dc.Base))
	}

	return m, nil
}

// Load routes a guest load through the bus.
func (m *Machine) Load(addr uint64, data []byte) bool {
	return m.bus.Load(addr, data)
}

// Store routes a guest store through the bus.
func (m *Machine) Store(addr uint64, data []byte) bool {
	return m.bus.Store(addr, data)
}

// FindDevice reports which device owns addr.
func (m *Machine) FindDevice(addr uint64) (uint64, simcore.Device) {
	return m.bus.FindDevice(addr)
}

// Bus exposes the underlying bus for direct device registration.
func (m *Machine) Bus() *bus.Bus { return m.bus }

// RAM returns the guest RAM device, or nil when none is configured.
func (m *Machine) RAM() *mem.Sparse { return m.ram }

// Registry returns the plugin registry in use.
func (m *Machine) Registry() *plugin.Registry { return m.registry }

// Devices lists the placed devices in configuration order.
func (m *Machine) Devices() []DeviceInfo { return m.info }

// Close releases every device (each plugin handle exactly once) and then
// the wasm host. Safe to call more than once.
func (m *Machine) Close(ctx context.Context) error {
	if m.closed {
		return nil
	}
	m.closed = true

	var firstErr error
	for _, dev := range m.devices {
		if err := dev.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.devices = nil

	if m.host != nil {
		if err := m.host.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return simerrors.Wrap(simerrors.PhaseConfig, simerrors.KindClosed, firstErr, "machine teardown")
	}
	return nil
}
