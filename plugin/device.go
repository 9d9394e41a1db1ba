package plugin

import (
	"sync"

	"go.uber.org/zap"

	simerrors "github.com/wippyai/simcore/errors"
)

// Device wraps one plugin instance as a bus device. It exclusively owns
// the handle the plugin's Alloc returned and releases it exactly once
// via Close.
type Device struct {
	plugin    Descriptor
	handle    any
	name      string
	closeOnce sync.Once
}

// NewDevice looks name up in reg and initializes an instance with args.
//
// The two failure modes are distinct: an unregistered name returns a
// construct/unknown_plugin error, while a registered plugin whose Alloc
// rejects args returns a plugin/plugin_init error.
func NewDevice(reg *Registry, name, args string) (*Device, error) {
	desc, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}

	handle := desc.Alloc(args)
	if handle == nil {
		return nil, simerrors.PluginInit(name, args)
	}

	Logger().Debug("plugin device created",
		zap.String("plugin", name),
		zap.String("args", args))

	return &Device{plugin: desc, handle: handle, name: name}, nil
}

// Name returns the plugin name this device was constructed from.
func (d *Device) Name() string { return d.name }

// Load implements simcore.Device by forwarding to the plugin verbatim.
// The device does not validate offset or length itself.
func (d *Device) Load(offset uint64, data []byte) bool {
	return d.plugin.Load(d.handle, offset, data)
}

// Store implements simcore.Device by forwarding to the plugin verbatim.
func (d *Device) Store(offset uint64, data []byte) bool {
	return d.plugin.Store(d.handle, offset, data)
}

// Close releases the plugin instance. Safe to call more than once; the
// plugin's Dealloc runs only on the first call.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		d.plugin.Dealloc(d.handle)
	})
	return nil
}
