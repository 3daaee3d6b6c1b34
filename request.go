package jointbuf

import (
	"unsafe"

	"github.com/wippyai/jointbuf/errors"
	"github.com/wippyai/jointbuf/internal/arith"
	"github.com/wippyai/jointbuf/plan"
)

// Request is one sub-buffer to be carved out of a joint allocation in host
// memory. It pairs a (size, alignment) span with a caller-owned output slot
// that receives the sub-buffer's absolute address at resolution.
//
// Requests are built through NewRequest or For, consumed once by the
// planner and once by the resolver, and hold no state worth keeping after
// that. The output slot must outlive the Resolve or Allocate call.
type Request struct {
	span plan.Span
	out  *unsafe.Pointer
}

// NewRequest builds a request for size bytes at the given alignment, to be
// delivered through out. size may be zero; a zero-size request still
// receives an aligned address. align must be a positive power of two.
func NewRequest(out *unsafe.Pointer, size, align uintptr) (*Request, error) {
	if out == nil {
		return nil, errors.NilOutputSlot(errors.NoIndex)
	}
	if !arith.IsPowerOfTwo(uint64(align)) {
		return nil, errors.InvalidAlignment(errors.PhasePlan, errors.NoIndex, uint64(align))
	}
	return &Request{
		span: plan.Span{Size: uint64(size), Align: uint64(align)},
		out:  out,
	}, nil
}

// For builds a request for n elements of type T, deriving the size and
// alignment from the element type. The resolved address lands in *out as a
// typed pointer; use unsafe.Slice to view it as []T.
func For[T any](out **T, n int) (*Request, error) {
	if out == nil {
		return nil, errors.NilOutputSlot(errors.NoIndex)
	}
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhasePlan, "negative element count")
	}
	var zero T
	size, ok := arith.SafeMul(uint64(unsafe.Sizeof(zero)), uint64(n))
	if !ok {
		return nil, errors.Overflow(errors.PhasePlan, errors.NoIndex, "element count times element size exceeds address space")
	}
	// *T and unsafe.Pointer share representation, so the typed slot can
	// serve as the output slot directly.
	r := &Request{
		span: plan.Span{Size: size, Align: uint64(unsafe.Alignof(zero))},
		out:  (*unsafe.Pointer)(unsafe.Pointer(out)),
	}
	return r, nil
}

// MustFor is For for statically correct arguments; it panics on error.
func MustFor[T any](out **T, n int) *Request {
	r, err := For(out, n)
	if err != nil {
		panic(err)
	}
	return r
}

// Size returns the requested byte size.
func (r *Request) Size() uint64 {
	return r.span.Size
}

// Align returns the requested alignment.
func (r *Request) Align() uint64 {
	return r.span.Align
}

// Offset returns the request's byte offset within the joint block. ok is
// false until the request has been planned.
func (r *Request) Offset() (offset uint64, ok bool) {
	return r.span.Offset()
}

// PlanTotal computes every request's offset and returns the total byte size
// of the joint block. Offsets are a documented side effect: after a
// successful call each request's Offset reports its position.
//
// The total assumes the block's base address will be aligned to at least
// the first request's alignment.
func PlanTotal(reqs []*Request) (uint64, error) {
	if len(reqs) == 0 {
		return 0, errors.EmptyRequestSet(errors.PhasePlan)
	}
	spans := make([]*plan.Span, len(reqs))
	for i, r := range reqs {
		if r == nil {
			return 0, errors.InvalidInput(errors.PhasePlan, "nil request")
		}
		if r.out == nil {
			return 0, errors.NilOutputSlot(i)
		}
		spans[i] = &r.span
	}
	return plan.Layout(spans)
}
