package jointbuf

import (
	"sync"
	"unsafe"
)

// Allocation records one joint block obtained from an Allocator.
type Allocation struct {
	Base  unsafe.Pointer
	Size  uint64
	Align uint64
}

// AllocationList tracks joint blocks so a caller making several joint
// allocations against one allocator can release them in bulk. Lists are
// pooled; obtain one with NewAllocationList and return it with Release.
type AllocationList struct {
	allocations []Allocation
}

var allocationListPool = sync.Pool{
	New: func() any {
		return &AllocationList{allocations: make([]Allocation, 0, 8)}
	},
}

func NewAllocationList() *AllocationList {
	return allocationListPool.Get().(*AllocationList)
}

const maxPooledAllocationCapacity = 128

// Release returns to pool. Must call after Free(); list invalid after Release.
func (al *AllocationList) Release() {
	// Only pool small allocation lists to prevent memory bloat
	if cap(al.allocations) > maxPooledAllocationCapacity {
		return
	}
	al.Reset()
	allocationListPool.Put(al)
}

func (al *AllocationList) FreeAndRelease(a Allocator) {
	al.Free(a)
	al.Release()
}

// Allocate runs the combined allocate operation and records the resulting
// block on success.
func (al *AllocationList) Allocate(reqs []*Request, a Allocator) (unsafe.Pointer, uint64, error) {
	base, total, err := Allocate(reqs, a)
	if err != nil {
		return nil, 0, err
	}
	al.Add(base, total, reqs[0].Align())
	return base, total, nil
}

func (al *AllocationList) Add(base unsafe.Pointer, size, align uint64) {
	al.allocations = append(al.allocations, Allocation{
		Base:  base,
		Size:  size,
		Align: align,
	})
}

func (al *AllocationList) Free(a Allocator) {
	if a == nil {
		return
	}
	for _, b := range al.allocations {
		if b.Base != nil {
			a.Free(b.Base, b.Size, b.Align)
		}
	}
	al.allocations = al.allocations[:0]
}

func (al *AllocationList) Reset() {
	al.allocations = al.allocations[:0]
}

func (al *AllocationList) Count() int {
	return len(al.allocations)
}
