//go:build unix

package plugin

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, contents []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backing.bin")
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFilePlugin_ReadOnly(t *testing.T) {
	path := writeTempFile(t, []byte("hello, guest"))

	desc := FilePlugin()
	handle := desc.Alloc(path)
	if handle == nil {
		t.Fatal("alloc failed for readable file")
	}
	defer desc.Dealloc(handle)

	got := make([]byte, 5)
	if !desc.Load(handle, 0, got) {
		t.Fatal("load failed")
	}
	if string(got) != "hello" {
		t.Fatalf("loaded %q, want %q", got, "hello")
	}

	// Without the w: flag every store fails, valid offset or not.
	if desc.Store(handle, 0, []byte("x")) {
		t.Fatal("store on read-only mapping should fail")
	}
	if desc.Store(handle, 1<<20, []byte("x")) {
		t.Fatal("out-of-range store should fail")
	}
}

func TestFilePlugin_Writable(t *testing.T) {
	path := writeTempFile(t, []byte("0123456789"))

	desc := FilePlugin()
	handle := desc.Alloc("w:" + path)
	if handle == nil {
		t.Fatal("alloc failed for writable file")
	}

	if !desc.Store(handle, 2, []byte("XY")) {
		t.Fatal("store failed")
	}
	got := make([]byte, 4)
	if !desc.Load(handle, 1, got) {
		t.Fatal("load failed")
	}
	if string(got) != "1XY4" {
		t.Fatalf("loaded %q, want %q", got, "1XY4")
	}
	desc.Dealloc(handle)

	// Shared mapping: the store must be visible in the file.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "01XY456789" {
		t.Fatalf("file contents %q, want %q", data, "01XY456789")
	}
}

func TestFilePlugin_LoadBounds(t *testing.T) {
	path := writeTempFile(t, []byte{1, 2, 3, 4})

	desc := FilePlugin()
	handle := desc.Alloc(path)
	if handle == nil {
		t.Fatal("alloc failed")
	}
	defer desc.Dealloc(handle)

	buf := make([]byte, 1)
	if !desc.Load(handle, 3, buf) {
		t.Fatal("last byte should load")
	}
	if desc.Load(handle, 4, buf) {
		t.Fatal("offset at length should fail")
	}
	if desc.Load(handle, 2, make([]byte, 4)) {
		t.Fatal("width past end should fail")
	}
}

func TestFilePlugin_AllocFailures(t *testing.T) {
	path := writeTempFile(t, []byte("data"))
	empty := writeTempFile(t, nil)

	desc := FilePlugin()

	tests := []struct {
		name string
		args string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope")},
		{"empty file", empty},
		{"unknown flag", "x:" + path},
		{"mixed flags", "wx:" + path},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if h := desc.Alloc(tt.args); h != nil {
				desc.Dealloc(h)
				t.Fatalf("Alloc(%q) should fail", tt.args)
			}
		})
	}
}

func TestRegisterBuiltins(t *testing.T) {
	reg := NewRegistry()
	if err := RegisterBuiltins(reg); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Lookup("file"); err != nil {
		t.Fatalf("file plugin not registered: %v", err)
	}
	if err := RegisterBuiltins(reg); err == nil {
		t.Fatal("double builtin registration should fail")
	}
}
