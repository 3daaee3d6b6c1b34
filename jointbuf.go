package jointbuf

import (
	"unsafe"

	"github.com/wippyai/jointbuf/errors"
)

// Allocator allocates blocks of host memory meeting an alignment. It is the
// seam between the planning core and whatever actually owns memory: a
// malloc binding, an arena, a pool.
//
// Alloc returns the base address of a block of at least size bytes aligned
// to align, or an error. Free releases a block previously returned by
// Alloc; allocators that cannot release individual blocks implement it as a
// no-op.
type Allocator interface {
	Alloc(size, align uint64) (unsafe.Pointer, error)
	Free(ptr unsafe.Pointer, size, align uint64)
}

// AllocFunc adapts a plain size-only allocation function to Allocator.
//
// The alignment argument is discarded: the function's natural alignment is
// all the caller gets for the block's base address. Use AlignedAllocFunc or
// a full Allocator when the first request's alignment exceeds what the
// function guarantees.
type AllocFunc func(size uint64) unsafe.Pointer

// Alloc implements Allocator. A nil result reports allocator failure.
func (f AllocFunc) Alloc(size, align uint64) (unsafe.Pointer, error) {
	p := f(size)
	if p == nil {
		return nil, errors.AllocatorFailure(size, align, nil)
	}
	return p, nil
}

// Free implements Allocator as a no-op; releasing memory obtained through a
// bare allocation function stays with the caller.
func (f AllocFunc) Free(ptr unsafe.Pointer, size, align uint64) {}

// AlignedAllocFunc adapts an alignment-aware allocation function to
// Allocator. The function receives the size first and the alignment
// second.
type AlignedAllocFunc func(size, align uint64) unsafe.Pointer

// Alloc implements Allocator. A nil result reports allocator failure.
func (f AlignedAllocFunc) Alloc(size, align uint64) (unsafe.Pointer, error) {
	p := f(size, align)
	if p == nil {
		return nil, errors.AllocatorFailure(size, align, nil)
	}
	return p, nil
}

// Free implements Allocator as a no-op.
func (f AlignedAllocFunc) Free(ptr unsafe.Pointer, size, align uint64) {}
