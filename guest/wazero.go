package guest

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/jointbuf/internal/arith"
)

// WrapFunction adapts a wazero api.Function with the cabi_realloc signature
// (old_ptr, old_size, align, new_size) -> ptr to the Allocator interface.
func WrapFunction(ctx context.Context, fn api.Function) Allocator {
	if fn == nil {
		return nil
	}
	return &functionAllocator{ctx: ctx, fn: fn}
}

type functionAllocator struct {
	ctx context.Context
	fn  api.Function
}

// Alloc allocates memory using cabi_realloc.
func (a *functionAllocator) Alloc(size, align uint32) (uint32, error) {
	results, err := a.fn.Call(a.ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, fmt.Errorf("guest allocation failed: %w", err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("guest allocation returned no result")
	}
	return uint32(results[0]), nil
}

// Free deallocates memory using cabi_realloc.
func (a *functionAllocator) Free(ptr, size, align uint32) {
	_, _ = a.fn.Call(a.ctx, uint64(ptr), uint64(size), uint64(align), 0)
}

// Memory is the subset of wazero's api.Memory the linear allocator needs.
type Memory interface {
	// Size returns the current size of linear memory in bytes.
	Size() uint32
	// Grow extends memory by deltaPages pages, reporting the previous
	// page count and whether the grow succeeded.
	Grow(deltaPages uint32) (previousPages uint32, ok bool)
}

const pageSize = 65536

// LinearAllocator bump-allocates fresh space at the end of a wasm linear
// memory, growing it page by page. It suits instances that export no
// allocator of their own. Free is a no-op: linear memory never shrinks.
//
// The allocator assumes nothing else grows the memory behind its back; all
// growth must go through it once it is created.
type LinearAllocator struct {
	mu   sync.Mutex
	mem  Memory
	next uint32
}

// NewLinearAllocator creates an allocator that hands out space starting at
// the current end of mem, so existing guest data is never overwritten.
// Pass the instance's api.Memory.
func NewLinearAllocator(mem Memory) *LinearAllocator {
	return &LinearAllocator{mem: mem, next: mem.Size()}
}

// Alloc reserves size bytes at the given alignment, growing linear memory
// as needed.
func (l *LinearAllocator) Alloc(size, align uint32) (uint32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	off := arith.AlignTo(uint64(l.next), uint64(align))
	end, ok := arith.SafeAdd(off, uint64(size))
	if !ok || end > math.MaxUint32 {
		return 0, fmt.Errorf("guest: allocation of %d bytes exceeds 32-bit linear memory", size)
	}

	if have := uint64(l.mem.Size()); end > have {
		deltaPages := uint32((end - have + pageSize - 1) / pageSize)
		if _, ok := l.mem.Grow(deltaPages); !ok {
			return 0, fmt.Errorf("guest: memory grow by %d pages refused", deltaPages)
		}
		Logger().Debug("linear memory grown",
			zap.Uint32("delta_pages", deltaPages),
			zap.Uint32("size", l.mem.Size()),
		)
	}

	l.next = uint32(end)
	return uint32(off), nil
}

// Free is a no-op.
func (l *LinearAllocator) Free(ptr, size, align uint32) {}
