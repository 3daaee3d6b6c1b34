package arena

import (
	"fmt"
	"math"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/jointbuf/internal/arith"
)

// GoAllocator allocates aligned blocks from the Go heap. Each block's
// backing slice is pinned in an internal table so the garbage collector
// keeps it alive until Free; forgetting to Free keeps the block reachable
// forever, which shows up in LiveBlocks.
type GoAllocator struct {
	mu    sync.Mutex
	live  map[uintptr][]byte
	stats Stats
}

// Stats counts what an allocator has done so far.
type Stats struct {
	TotalAllocations uint64 // number of Alloc calls that succeeded
	TotalBytesAlloc  uint64 // total bytes requested
	LargestAlloc     uint64 // largest single allocation
}

// NewGoAllocator returns an empty GC-backed allocator.
func NewGoAllocator() *GoAllocator {
	return &GoAllocator{live: make(map[uintptr][]byte)}
}

// Alloc returns a block of at least size bytes whose address is a multiple
// of align. align must be a positive power of two.
func (g *GoAllocator) Alloc(size, align uint64) (unsafe.Pointer, error) {
	if !arith.IsPowerOfTwo(align) {
		return nil, fmt.Errorf("arena: alignment %d is not a power of two", align)
	}
	padded, ok := arith.SafeAdd(size, align)
	if !ok || padded > math.MaxInt {
		return nil, fmt.Errorf("arena: allocation of %d bytes exceeds host memory", size)
	}

	// Over-allocate by the alignment, then step to the first aligned byte.
	buf := make([]byte, padded)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	pad := (uintptr(align) - addr%uintptr(align)) % uintptr(align)
	p := unsafe.Pointer(&buf[pad])

	g.mu.Lock()
	g.live[uintptr(p)] = buf
	g.stats.TotalAllocations++
	g.stats.TotalBytesAlloc += size
	if size > g.stats.LargestAlloc {
		g.stats.LargestAlloc = size
	}
	g.mu.Unlock()

	Logger().Debug("alloc",
		zap.Uint64("size", size),
		zap.Uint64("align", align),
		zap.Uintptr("addr", uintptr(p)),
	)
	return p, nil
}

// Free unpins the block at ptr. Unknown pointers are ignored.
func (g *GoAllocator) Free(ptr unsafe.Pointer, size, align uint64) {
	g.mu.Lock()
	delete(g.live, uintptr(ptr))
	g.mu.Unlock()

	Logger().Debug("free",
		zap.Uint64("size", size),
		zap.Uintptr("addr", uintptr(ptr)),
	)
}

// LiveBlocks returns the number of blocks allocated and not yet freed.
func (g *GoAllocator) LiveBlocks() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.live)
}

// Stats returns a copy of the allocation statistics.
func (g *GoAllocator) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}
