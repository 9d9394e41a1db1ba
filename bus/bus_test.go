package bus

import (
	"testing"

	"github.com/wippyai/simcore/mem"
)

// echoDevice records the last access it saw and answers with a fixed id.
type echoDevice struct {
	id       byte
	lastOff  uint64
	lastLen  int
	lastOp   string
	answered bool
}

func (d *echoDevice) Load(offset uint64, data []byte) bool {
	d.lastOff, d.lastLen, d.lastOp = offset, len(data), "load"
	for i := range data {
		data[i] = d.id
	}
	return d.answered
}

func (d *echoDevice) Store(offset uint64, data []byte) bool {
	d.lastOff, d.lastLen, d.lastOp = offset, len(data), "store"
	return d.answered
}

func TestBus_EmptyFails(t *testing.T) {
	b := New()

	buf := make([]byte, 4)
	if b.Load(0, buf) {
		t.Fatal("load on empty bus should fail")
	}
	if b.Store(0x1000, buf) {
		t.Fatal("store on empty bus should fail")
	}
	if base, dev := b.FindDevice(0xffff_ffff); dev != nil || base != 0 {
		t.Fatal("FindDevice on empty bus should return (0, nil)")
	}
}

func TestBus_Resolution(t *testing.T) {
	d1 := &echoDevice{id: 1, answered: true}
	d2 := &echoDevice{id: 2, answered: true}
	d3 := &echoDevice{id: 3, answered: true}

	b := New()
	// Deliberately registered out of order.
	b.AddDevice(0x8000_0000, d3)
	b.AddDevice(0x1000, d1)
	b.AddDevice(0x2000, d2)

	tests := []struct {
		name    string
		addr    uint64
		dev     *echoDevice
		base    uint64
		wantOff uint64
	}{
		{"exact first base", 0x1000, d1, 0x1000, 0},
		{"inside first range", 0x1fff, d1, 0x1000, 0xfff},
		{"exact second base", 0x2000, d2, 0x2000, 0},
		{"between second and third", 0x10_0000, d2, 0x2000, 0x10_0000 - 0x2000},
		{"exact last base", 0x8000_0000, d3, 0x8000_0000, 0},
		{"far above last base", 0xffff_ffff_ffff_ffff, d3, 0x8000_0000, 0xffff_ffff_ffff_ffff - 0x8000_0000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, dev := b.FindDevice(tt.addr)
			if dev != tt.dev {
				t.Fatalf("FindDevice(%#x) resolved to device %v, want id %d", tt.addr, dev, tt.dev.id)
			}
			if base != tt.base {
				t.Fatalf("FindDevice(%#x) base = %#x, want %#x", tt.addr, base, tt.base)
			}

			buf := make([]byte, 2)
			if !b.Load(tt.addr, buf) {
				t.Fatalf("Load(%#x) failed", tt.addr)
			}
			if tt.dev.lastOff != tt.wantOff {
				t.Fatalf("device saw offset %#x, want %#x", tt.dev.lastOff, tt.wantOff)
			}
			if buf[0] != tt.dev.id {
				t.Fatalf("loaded id %d, want %d", buf[0], tt.dev.id)
			}
		})
	}
}

func TestBus_BelowAllBasesFails(t *testing.T) {
	b := New()
	b.AddDevice(0x1000, &echoDevice{id: 1, answered: true})

	buf := []byte{0xaa}
	if b.Load(0xfff, buf) {
		t.Fatal("address below every base should fail")
	}
	if buf[0] != 0xaa {
		t.Fatal("failed load must not touch the buffer")
	}
	if _, dev := b.FindDevice(0); dev != nil {
		t.Fatal("FindDevice below every base should return nil")
	}
}

func TestBus_ReplaceSameBase(t *testing.T) {
	d1 := &echoDevice{id: 1, answered: true}
	d2 := &echoDevice{id: 2, answered: true}

	b := New()
	b.AddDevice(0x4000, d1)
	b.AddDevice(0x4000, d2)

	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after replacement", b.Len())
	}
	if _, dev := b.FindDevice(0x4000); dev != d2 {
		t.Fatal("re-adding the same base should replace the device")
	}
}

func TestBus_ForwardsDeviceResult(t *testing.T) {
	refusing := &echoDevice{id: 9, answered: false}
	b := New()
	b.AddDevice(0, refusing)

	if b.Store(0x10, []byte{1}) {
		t.Fatal("bus must return the device's failure verbatim")
	}
	if refusing.lastOp != "store" || refusing.lastOff != 0x10 {
		t.Fatalf("device saw %s at %#x, want store at 0x10", refusing.lastOp, refusing.lastOff)
	}
}

func TestBus_SparseMemoryDevice(t *testing.T) {
	ram, err := mem.New(16 * mem.PageSize)
	if err != nil {
		t.Fatal(err)
	}

	b := New()
	b.AddDevice(0x8000_0000, ram)

	want := []byte{0xde, 0xad, 0xbe, 0xef}
	if !b.Store(0x8000_1000, want) {
		t.Fatal("store through bus failed")
	}

	got := make([]byte, 4)
	if !b.Load(0x8000_1000, got) {
		t.Fatal("load through bus failed")
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}

	// Beyond the RAM's declared size the bus still routes here, and the
	// memory's own bounds check rejects the access.
	if b.Load(0x8000_0000+16*mem.PageSize, got) {
		t.Fatal("access past the device's size should fail in the device")
	}
}

func BenchmarkBus_Load(b *testing.B) {
	ram, err := mem.New(mem.PageSize)
	if err != nil {
		b.Fatal(err)
	}

	bb := New()
	for i := 0; i < 64; i++ {
		bb.AddDevice(uint64(i)<<24, &echoDevice{id: byte(i), answered: true})
	}
	bb.AddDevice(1<<48, ram)

	buf := make([]byte, 8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bb.Load(1<<48+uint64(i)%mem.PageSize, buf[:1])
	}
}
