package arena

import (
	"testing"
	"unsafe"

	"github.com/wippyai/jointbuf"
)

func TestArenaAlloc(t *testing.T) {
	a := New(128)

	p1, err := a.Alloc(10, 8)
	if err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	p2, err := a.Alloc(4, 4)
	if err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}

	if uintptr(p1)%8 != 0 {
		t.Errorf("p1 %p not 8-aligned", p1)
	}
	if uintptr(p2)%4 != 0 {
		t.Errorf("p2 %p not 4-aligned", p2)
	}
	// 10 bytes at 0, then pad to 12.
	if got := uintptr(p2) - uintptr(p1); got != 12 {
		t.Errorf("p2 - p1 = %d, want 12", got)
	}
	if a.Used() != 16 {
		t.Errorf("Used() = %d, want 16", a.Used())
	}
}

func TestArenaExhaustion(t *testing.T) {
	a := New(16)

	if _, err := a.Alloc(16, 1); err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	if _, err := a.Alloc(1, 1); err == nil {
		t.Error("Alloc past capacity succeeded")
	}

	a.Reset()
	if a.Used() != 0 {
		t.Errorf("Used() = %d after Reset, want 0", a.Used())
	}
	if _, err := a.Alloc(16, 1); err != nil {
		t.Errorf("Alloc after Reset error = %v", err)
	}
}

func TestArenaRejectsBadAlignment(t *testing.T) {
	a := New(1024)
	if _, err := a.Alloc(8, 3); err == nil {
		t.Error("Alloc with non power of two alignment succeeded")
	}
	if _, err := a.Alloc(8, 128); err == nil {
		t.Error("Alloc with alignment above base alignment succeeded")
	}
}

func TestArenaZeroSize(t *testing.T) {
	a := New(8)
	if _, err := a.Alloc(8, 1); err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	// Zero bytes at the very end of the arena is still addressable.
	if _, err := a.Alloc(0, 8); err != nil {
		t.Errorf("zero-size Alloc at capacity error = %v", err)
	}
}

func TestGoAllocatorAlignment(t *testing.T) {
	g := NewGoAllocator()

	for _, align := range []uint64{1, 2, 8, 64, 4096} {
		p, err := g.Alloc(24, align)
		if err != nil {
			t.Fatalf("Alloc(24, %d) error = %v", align, err)
		}
		if uintptr(p)%uintptr(align) != 0 {
			t.Errorf("Alloc(24, %d) = %p, not aligned", align, p)
		}
	}
}

func TestGoAllocatorLiveTracking(t *testing.T) {
	g := NewGoAllocator()

	p1, err := g.Alloc(16, 8)
	if err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	p2, err := g.Alloc(32, 16)
	if err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	if g.LiveBlocks() != 2 {
		t.Errorf("LiveBlocks() = %d, want 2", g.LiveBlocks())
	}

	g.Free(p1, 16, 8)
	if g.LiveBlocks() != 1 {
		t.Errorf("LiveBlocks() = %d after one Free, want 1", g.LiveBlocks())
	}
	g.Free(p2, 32, 16)
	g.Free(p2, 32, 16) // double free is ignored
	if g.LiveBlocks() != 0 {
		t.Errorf("LiveBlocks() = %d, want 0", g.LiveBlocks())
	}

	stats := g.Stats()
	if stats.TotalAllocations != 2 || stats.TotalBytesAlloc != 48 || stats.LargestAlloc != 32 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestGoAllocatorRejectsBadAlignment(t *testing.T) {
	g := NewGoAllocator()
	for _, align := range []uint64{0, 3, 12} {
		if _, err := g.Alloc(8, align); err != nil {
			continue
		}
		t.Errorf("Alloc(8, %d) succeeded", align)
	}
}

// The backends satisfy the root Allocator interface and work end to end
// with the combined allocate operation.
func TestBackendsWithJointAllocate(t *testing.T) {
	backends := []struct {
		name  string
		alloc jointbuf.Allocator
	}{
		{"go allocator", NewGoAllocator()},
		{"arena", New(4096)},
	}

	for _, tt := range backends {
		t.Run(tt.name, func(t *testing.T) {
			var a *uint64
			var b *uint16

			reqs := []*jointbuf.Request{
				jointbuf.MustFor(&a, 6),
				jointbuf.MustFor(&b, 3),
			}
			base, total, err := jointbuf.Allocate(reqs, tt.alloc)
			if err != nil {
				t.Fatalf("Allocate() error = %v", err)
			}
			if total != 54 {
				t.Errorf("total = %d, want 54", total)
			}
			if unsafe.Pointer(a) != base {
				t.Errorf("a = %p, want base %p", a, base)
			}
			if unsafe.Pointer(b) != unsafe.Add(base, 48) {
				t.Errorf("b = %p, want base+48", b)
			}

			s := unsafe.Slice(a, 6)
			s[5] = 7
			if unsafe.Slice(a, 6)[5] != 7 {
				t.Error("write through resolved pointer did not stick")
			}

			tt.alloc.Free(base, total, reqs[0].Align())
		})
	}
}
