package plan

import (
	"github.com/wippyai/jointbuf/errors"
	"github.com/wippyai/jointbuf/internal/arith"
)

// Layout computes each span's offset and returns the total byte size of the
// joint block. Spans are packed sequentially in the order given: the cursor
// is rounded up to the span's alignment, that position becomes the span's
// offset, and the cursor advances by the span's size.
//
// On failure no span is modified; previously planned offsets survive a
// failed re-plan untouched.
func Layout(spans []*Span) (uint64, error) {
	if len(spans) == 0 {
		return 0, errors.EmptyRequestSet(errors.PhasePlan)
	}

	for i, s := range spans {
		if s == nil {
			return 0, errors.InvalidInput(errors.PhasePlan, "nil span")
		}
		if !arith.IsPowerOfTwo(s.Align) {
			return 0, errors.InvalidAlignment(errors.PhasePlan, i, s.Align)
		}
	}

	// Compute all offsets before committing any, so overflow midway
	// cannot leave the sequence half planned.
	offsets := make([]uint64, len(spans))
	cursor := uint64(0)
	for i, s := range spans {
		off, ok := arith.AlignToChecked(cursor, s.Align)
		if !ok {
			return 0, errors.Overflow(errors.PhasePlan, i, "alignment padding exceeds address space")
		}
		offsets[i] = off

		cursor, ok = arith.SafeAdd(off, s.Size)
		if !ok {
			return 0, errors.Overflow(errors.PhasePlan, i, "cumulative size exceeds address space")
		}
	}

	for i, s := range spans {
		s.offset = offsets[i]
		s.planned = true
	}
	return cursor, nil
}
