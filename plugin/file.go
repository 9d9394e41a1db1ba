//go:build unix

package plugin

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// fileInstance is the state behind one "file" plugin device: the file's
// contents mapped into the host's address space.
type fileInstance struct {
	data     []byte
	writable bool
}

// FilePlugin returns the built-in zero-copy file-backed device plugin.
//
// Args syntax: ["w:"]filename. The optional "w" flag opens the file
// read-write and maps it shared, so guest stores land in the file.
// Alloc fails (returns nil) when the flags are unrecognized, the file
// cannot be opened, its length is zero, or the mapping fails.
func FilePlugin() Descriptor {
	return Descriptor{
		Alloc:   fileAlloc,
		Load:    fileLoad,
		Store:   fileStore,
		Dealloc: fileDealloc,
	}
}

func builtinPlugins() map[string]Descriptor {
	return map[string]Descriptor{"file": FilePlugin()}
}

func fileAlloc(args string) any {
	filename := args
	writable := false
	if flags, rest, ok := strings.Cut(args, ":"); ok {
		filename = rest
		for _, flag := range flags {
			if flag != 'w' {
				return nil
			}
			writable = true
		}
	}

	mode := os.O_RDONLY
	prot := unix.PROT_READ
	if writable {
		mode = os.O_RDWR
		prot |= unix.PROT_WRITE
	}

	f, err := os.OpenFile(filename, mode, 0)
	if err != nil {
		return nil
	}

	length, err := f.Seek(0, io.SeekEnd)
	if err != nil || length == 0 {
		f.Close() // ignore error
		return nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(length), prot, unix.MAP_SHARED)
	if err != nil {
		f.Close() // ignore error
		return nil
	}

	// The mapping outlives the descriptor; a close failure still fails
	// the whole init so no partial object escapes.
	if err := f.Close(); err != nil {
		unix.Munmap(data)
		return nil
	}

	Logger().Debug("file plugin mapped",
		zap.String("file", filename),
		zap.Int64("length", length),
		zap.Bool("writable", writable))

	return &fileInstance{data: data, writable: writable}
}

func fileLoad(handle any, offset uint64, buf []byte) bool {
	inst := handle.(*fileInstance)
	if offset >= uint64(len(inst.data)) || uint64(len(buf)) > uint64(len(inst.data))-offset {
		return false
	}
	copy(buf, inst.data[offset:])
	return true
}

func fileStore(handle any, offset uint64, buf []byte) bool {
	inst := handle.(*fileInstance)
	if !inst.writable {
		return false
	}
	if offset >= uint64(len(inst.data)) || uint64(len(buf)) > uint64(len(inst.data))-offset {
		return false
	}
	copy(inst.data[offset:], buf)
	return true
}

func fileDealloc(handle any) {
	if handle == nil {
		return
	}
	inst := handle.(*fileInstance)
	unix.Munmap(inst.data) // ignore error
}
