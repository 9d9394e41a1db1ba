package plugin

import (
	"errors"
	"testing"

	simerrors "github.com/wippyai/simcore/errors"
)

// ramPlugin is a minimal in-memory plugin for exercising the registry
// and device wrapper. Args "bad" makes the allocator reject.
type ramInstance struct {
	data     []byte
	deallocs *int
}

func ramPlugin(deallocs *int) Descriptor {
	return Descriptor{
		Alloc: func(args string) any {
			if args == "bad" {
				return nil
			}
			return &ramInstance{data: make([]byte, 64), deallocs: deallocs}
		},
		Load: func(handle any, offset uint64, data []byte) bool {
			inst := handle.(*ramInstance)
			if offset+uint64(len(data)) > uint64(len(inst.data)) {
				return false
			}
			copy(data, inst.data[offset:])
			return true
		},
		Store: func(handle any, offset uint64, data []byte) bool {
			inst := handle.(*ramInstance)
			if offset+uint64(len(data)) > uint64(len(inst.data)) {
				return false
			}
			copy(inst.data[offset:], data)
			return true
		},
		Dealloc: func(handle any) {
			inst := handle.(*ramInstance)
			*inst.deallocs++
		},
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	var deallocs int

	if err := reg.Register("ram", ramPlugin(&deallocs)); err != nil {
		t.Fatal(err)
	}

	if _, err := reg.Lookup("ram"); err != nil {
		t.Fatalf("Lookup after Register failed: %v", err)
	}

	_, err := reg.Lookup("rom")
	var serr *simerrors.Error
	if !errors.As(err, &serr) || serr.Kind != simerrors.KindUnknownPlugin {
		t.Fatalf("Lookup of unknown name = %v, want unknown_plugin", err)
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := NewRegistry()
	var deallocs int

	if err := reg.Register("ram", ramPlugin(&deallocs)); err != nil {
		t.Fatal(err)
	}

	err := reg.Register("ram", ramPlugin(&deallocs))
	var serr *simerrors.Error
	if !errors.As(err, &serr) || serr.Kind != simerrors.KindDuplicateName {
		t.Fatalf("duplicate Register = %v, want duplicate_name", err)
	}
}

func TestDevice_RoundTrip(t *testing.T) {
	reg := NewRegistry()
	var deallocs int
	if err := reg.Register("ram", ramPlugin(&deallocs)); err != nil {
		t.Fatal(err)
	}

	dev, err := NewDevice(reg, "ram", "64")
	if err != nil {
		t.Fatal(err)
	}
	defer dev.Close()

	want := []byte{0x13, 0x37}
	if !dev.Store(10, want) {
		t.Fatal("store failed")
	}
	got := make([]byte, 2)
	if !dev.Load(10, got) {
		t.Fatal("load failed")
	}
	if got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("loaded %v, want %v", got, want)
	}

	// Out-of-range handling is the plugin's call; the wrapper just
	// forwards the result.
	if dev.Load(100, got) {
		t.Fatal("plugin rejection should propagate")
	}
}

func TestNewDevice_FailureModes(t *testing.T) {
	reg := NewRegistry()
	var deallocs int
	if err := reg.Register("ram", ramPlugin(&deallocs)); err != nil {
		t.Fatal(err)
	}

	// Unknown name and rejected args must be distinguishable.
	_, err := NewDevice(reg, "missing", "64")
	var serr *simerrors.Error
	if !errors.As(err, &serr) || serr.Kind != simerrors.KindUnknownPlugin {
		t.Fatalf("unknown name = %v, want unknown_plugin", err)
	}

	_, err = NewDevice(reg, "ram", "bad")
	if !errors.As(err, &serr) || serr.Kind != simerrors.KindPluginInit {
		t.Fatalf("rejected args = %v, want plugin_init", err)
	}
}

func TestDevice_CloseExactlyOnce(t *testing.T) {
	reg := NewRegistry()
	var deallocs int
	if err := reg.Register("ram", ramPlugin(&deallocs)); err != nil {
		t.Fatal(err)
	}

	dev, err := NewDevice(reg, "ram", "64")
	if err != nil {
		t.Fatal(err)
	}

	dev.Close()
	dev.Close()
	if deallocs != 1 {
		t.Fatalf("dealloc ran %d times, want exactly 1", deallocs)
	}
}
