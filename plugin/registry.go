package plugin

import (
	"sync"

	"go.uber.org/zap"

	simerrors "github.com/wippyai/simcore/errors"
)

// Descriptor is the four-function vtable a memory-mapped device plugin
// supplies. It is the stable boundary between the core and independently
// built device implementations: the core never looks inside the handle
// Alloc returns, it only passes it back to the other three functions.
type Descriptor struct {
	// Alloc parses args (plugin-defined mini-syntax) and returns the
	// instance handle, or nil when initialization fails.
	Alloc func(args string) any

	// Load copies len(data) bytes at offset from the instance into data.
	Load func(handle any, offset uint64, data []byte) bool

	// Store copies len(data) bytes from data into the instance at offset.
	Store func(handle any, offset uint64, data []byte) bool

	// Dealloc releases the instance. Called exactly once per handle.
	Dealloc func(handle any)
}

// Registry is the shared namespace of plugin descriptors. It is an
// explicit object passed into every device-construction call site rather
// than process-global state; registration is append-only and there is no
// removal operation, so after setup completes the registry can be
// treated as read-only.
type Registry struct {
	plugins map[string]Descriptor
	mu      sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]Descriptor),
	}
}

// Register stores desc under name. Registering a name twice fails; there
// is no replacement path.
func (r *Registry) Register(name string, desc Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plugins[name]; ok {
		return simerrors.DuplicateName(name)
	}
	r.plugins[name] = desc

	Logger().Debug("registered mmio plugin", zap.String("name", name))
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.plugins[name]
	if !ok {
		return Descriptor{}, simerrors.UnknownPlugin(name)
	}
	return desc, nil
}

// Names returns the registered plugin names, for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	return names
}
