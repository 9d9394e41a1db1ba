package plugin

// RegisterBuiltins registers the plugins that ship with the core. Call
// once at startup, before constructing any user device. The set is
// platform-dependent; the file plugin needs mmap and ships only on unix.
func RegisterBuiltins(reg *Registry) error {
	for name, desc := range builtinPlugins() {
		if err := reg.Register(name, desc); err != nil {
			return err
		}
	}
	return nil
}
