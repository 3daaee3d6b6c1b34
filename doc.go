// Package jointbuf plans and resolves joint allocations: one contiguous
// block of memory subdivided to back several independently-typed
// sub-buffers, each individually aligned.
//
// Callers declare what they need as an ordered sequence of requests, each
// carrying a size, an alignment, and an output slot. The planner computes a
// byte offset per request and the total block size; the resolver writes
// base+offset through every output slot once a base address exists. One
// allocator call replaces N, and nobody does offset bookkeeping by hand.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	jointbuf/        Root package: host-pointer requests, Allocator interface,
//	                 the combined Allocate operation
//	├── plan/        Core packing planner over an abstract address space
//	├── guest/       The same contracts in wasm linear memory, wired to wazero
//	├── arena/       In-process Allocator backends (GC-backed, bump arena)
//	└── errors/      Structured error types
//
// # Quick Start
//
// Joint-allocate a vertex buffer and an index buffer in one block:
//
//	var vertices *Vec3
//	var indices *uint16
//
//	reqs := []*jointbuf.Request{
//	    jointbuf.MustFor(&vertices, 4),
//	    jointbuf.MustFor(&indices, 6),
//	}
//
//	base, total, err := jointbuf.Allocate(reqs, arena.NewGoAllocator())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// vertices and indices now point into the same block.
//
// # Two-Phase Contract
//
// Planning and resolution are separate phases with an explicit ordering:
//
//  1. PlanTotal computes offsets and the total size (pure arithmetic).
//  2. The caller obtains a base address, typically from an Allocator.
//  3. Resolve writes base+offset through every output slot.
//
// Allocate composes all three and is the shape most callers want. An
// offset is unreadable before its request has been planned; resolving an
// unplanned sequence fails rather than producing garbage addresses.
//
// # Alignment
//
// All alignments must be positive powers of two. The block as a whole
// carries the FIRST request's alignment: if the allocator cannot guarantee
// that alignment for the base address, sub-buffer addresses beyond the
// first are unreliable. Alignment-aware allocators receive the first
// request's alignment; plain size-only allocators are the caller's promise
// that their natural alignment suffices.
//
// # Error Handling
//
// Every failure is synchronous and all-or-nothing: Allocate either returns
// a valid base with every output slot populated, or an error with no slot
// touched. Errors use the structured types from the errors package:
//
//	[plan] invalid_alignment at request 2: alignment 6 is not a power of two
//	[alloc] allocator_failure: failed to allocate 60 bytes (align 16)
//
// # Ownership and Concurrency
//
// The library never frees memory on success; the returned block belongs to
// whatever frees the allocator's result. Requests hold no shared state:
// planning and resolving independent sequences from multiple goroutines is
// safe, concurrent use of one sequence is not.
package jointbuf
