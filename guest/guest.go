package guest

import (
	stderrors "errors"
	"math"

	"github.com/wippyai/jointbuf/errors"
	"github.com/wippyai/jointbuf/internal/arith"
	"github.com/wippyai/jointbuf/plan"
)

// Allocator allocates memory in wasm linear memory. Alloc returns the
// address of a block of at least size bytes aligned to align. Free releases
// it; allocators that cannot release (linear memory never shrinks)
// implement it as a no-op.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}

// Request is one sub-buffer to be carved out of a joint guest allocation.
// The output slot receives the sub-buffer's linear-memory address.
type Request struct {
	span plan.Span
	out  *uint32
}

// NewRequest builds a request for size bytes at the given alignment,
// delivered through out. align must be a positive power of two.
func NewRequest(out *uint32, size, align uint32) (*Request, error) {
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

// MustNewRequest is NewRequest for statically correct arguments; it panics
// on error.
func MustNewRequest(out *uint32, size, align uint32) *Request {
	r, err := NewRequest(out, size, align)
	if err != nil {
		panic(err)
	}
	return r
}

// Size returns the requested byte size.
func (r *Request) Size() uint32 {
	return uint32(r.span.Size)
}

// Align returns the requested alignment.
func (r *Request) Align() uint32 {
	return uint32(r.span.Align)
}

// Offset returns the request's byte offset within the joint block. ok is
// false until the request has been planned.
func (r *Request) Offset() (offset uint32, ok bool) {
	off, ok := r.span.Offset()
	return uint32(off), ok
}

// PlanTotal computes every request's offset and returns the total size of
// the joint block. Totals past the 4 GiB linear-memory limit fail with an
// overflow error.
func PlanTotal(reqs []*Request) (uint32, error) {
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
	total, err := plan.Layout(spans)
	if err != nil {
		return 0, err
	}
	if total > math.MaxUint32 {
		for _, s := range spans {
			s.Invalidate()
		}
		return 0, errors.Overflow(errors.PhasePlan, errors.NoIndex, "total exceeds 32-bit linear memory")
	}
	return uint32(total), nil
}

// Resolve writes base+offset through every request's output slot. The
// sequence must have been planned, and the block [base, base+total) must
// lie inside linear memory; the resolver checks only that no address wraps
// the 32-bit space. All-or-nothing: a failure touches no slot.
func Resolve(base uint32, reqs []*Request) error {
	if len(reqs) == 0 {
		return errors.EmptyRequestSet(errors.PhaseResolve)
	}

	for i, r := range reqs {
		if r == nil {
			return errors.InvalidInput(errors.PhaseResolve, "nil request")
		}
		if r.out == nil {
			return errors.NilOutputSlot(i)
		}
		off, ok := r.span.Offset()
		if !ok {
			return errors.NotPlanned(errors.PhaseResolve, i)
		}
		end, ok := arith.SafeAdd(uint64(base)+off, r.span.Size)
		if !ok || end > math.MaxUint32 {
			return errors.OutOfBounds(errors.PhaseResolve, "sub-buffer wraps 32-bit linear memory")
		}
	}

	for _, r := range reqs {
		off, _ := r.span.Offset()
		*r.out = base + uint32(off)
	}
	return nil
}

// Allocate plans the request sequence, obtains one block from the guest
// allocator, and resolves every request's address inside it. The block is
// freed back to the allocator if resolution fails.
func Allocate(reqs []*Request, a Allocator) (base, total uint32, err error) {
	if a == nil {
		return 0, 0, errors.InvalidInput(errors.PhaseAlloc, "nil allocator")
	}

	total, err = PlanTotal(reqs)
	if err != nil {
		return 0, 0, err
	}
	align := reqs[0].Align()

	base, err = a.Alloc(total, align)
	if err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) {
			return 0, 0, err
		}
		return 0, 0, errors.AllocatorFailure(uint64(total), uint64(align), err)
	}
	if base == 0 {
		return 0, 0, errors.AllocatorFailure(uint64(total), uint64(align), nil)
	}

	if err := Resolve(base, reqs); err != nil {
		a.Free(base, total, align)
		return 0, 0, err
	}
	return base, total, nil
}
