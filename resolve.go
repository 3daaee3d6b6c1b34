package jointbuf

import (
	"math"
	"unsafe"

	"github.com/wippyai/jointbuf/errors"
)

// Resolve writes base+offset through every request's output slot. The
// sequence must already have been planned by PlanTotal, and base must be
// the start of a block of at least the planned total size, aligned to the
// first request's alignment.
//
// Resolve is all-or-nothing: every request is checked before any slot is
// written, so a failure leaves every slot untouched. It does not allocate
// or free memory.
func Resolve(base unsafe.Pointer, reqs []*Request) error {
	if len(reqs) == 0 {
		return errors.EmptyRequestSet(errors.PhaseResolve)
	}
	if base == nil {
		return errors.InvalidInput(errors.PhaseResolve, "nil base address")
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
		if off > math.MaxInt {
			return errors.Overflow(errors.PhaseResolve, i, "offset exceeds host address space")
		}
	}

	for _, r := range reqs {
		off, _ := r.span.Offset()
		*r.out = unsafe.Add(base, int(off))
	}
	return nil
}
