//go:build !unix

package plugin

func builtinPlugins() map[string]Descriptor {
	return nil
}
