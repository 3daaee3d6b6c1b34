// Package plan computes packing plans for joint allocations.
//
// A joint allocation backs several logically distinct sub-buffers with one
// contiguous block. The planner walks an ordered sequence of (size, align)
// spans with a bump cursor, rounding the cursor up to each span's alignment
// before claiming its bytes:
//
//	Span            Offset
//	──────────────────────────
//	size 48, align 16    0
//	size 12, align  2   48
//	                  ──────
//	total               60
//
// Spans are packed in the exact order given; the planner never reorders for
// density. The computed total assumes the block's base address is aligned to
// at least the first span's alignment — padding between spans then makes
// every span's absolute address satisfy its own alignment.
//
// A zero-size span still claims an aligned position: it affects the cursor
// through alignment rounding even though it contributes no bytes. This backs
// the "reserve a zero-length aligned pointer" case.
//
// Layout either plans every span or none: validation and overflow checking
// complete before any span's offset is written, so a failed call leaves the
// sequence unplanned and a repeated call is idempotent.
//
// The package is pure arithmetic over an abstract zero-based address space.
// Binding planned offsets to real addresses is the job of the resolver in
// the root package (host pointers) and the guest package (wasm linear
// memory).
package plan
