package jointbuf

import (
	stderrors "errors"
	"unsafe"

	"github.com/wippyai/jointbuf/errors"
)

// Allocate plans the request sequence, obtains one block from the
// allocator, and resolves every request's address inside it. It returns
// the block's base address and total size; freeing the block (through the
// same allocator) is the caller's responsibility.
//
// The allocator receives the planned total and the first request's
// alignment. On any failure no output slot is written and any block
// already obtained is returned to the allocator.
func Allocate(reqs []*Request, a Allocator) (unsafe.Pointer, uint64, error) {
	if a == nil {
		return nil, 0, errors.InvalidInput(errors.PhaseAlloc, "nil allocator")
	}

	total, err := PlanTotal(reqs)
	if err != nil {
		return nil, 0, err
	}
	align := reqs[0].Align()

	base, err := a.Alloc(total, align)
	if err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) {
			return nil, 0, err
		}
		return nil, 0, errors.AllocatorFailure(total, align, err)
	}
	if base == nil {
		return nil, 0, errors.AllocatorFailure(total, align, nil)
	}

	if err := Resolve(base, reqs); err != nil {
		a.Free(base, total, align)
		return nil, 0, err
	}
	return base, total, nil
}
