package jointbuf

import (
	"testing"
	"unsafe"
)

func TestAllocationListTracksAndFrees(t *testing.T) {
	alloc := &testAllocator{}
	al := NewAllocationList()

	var a *uint64
	var b *uint32
	if _, _, err := al.Allocate([]*Request{MustFor(&a, 2)}, alloc); err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if _, _, err := al.Allocate([]*Request{MustFor(&b, 4)}, alloc); err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if al.Count() != 2 {
		t.Errorf("Count() = %d, want 2", al.Count())
	}

	al.FreeAndRelease(alloc)
	if alloc.frees != 2 {
		t.Errorf("allocator freed %d blocks, want 2", alloc.frees)
	}
}

func TestAllocationListFailureNotRecorded(t *testing.T) {
	alloc := &testAllocator{failNil: true}
	al := NewAllocationList()
	defer al.Release()

	var a *uint64
	if _, _, err := al.Allocate([]*Request{MustFor(&a, 1)}, alloc); err == nil {
		t.Fatal("Allocate() succeeded with failing allocator")
	}
	if al.Count() != 0 {
		t.Errorf("Count() = %d after failed allocate, want 0", al.Count())
	}
}

func TestAllocationListManualAdd(t *testing.T) {
	al := NewAllocationList()
	defer al.Release()

	buf := make([]byte, 16)
	al.Add(unsafe.Pointer(&buf[0]), 16, 8)
	al.Add(nil, 0, 1) // nil bases are skipped on Free

	alloc := &testAllocator{}
	al.Free(alloc)
	if alloc.frees != 1 {
		t.Errorf("allocator freed %d blocks, want 1", alloc.frees)
	}
	if al.Count() != 0 {
		t.Errorf("Count() = %d after Free, want 0", al.Count())
	}
}
