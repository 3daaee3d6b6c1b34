// Package guest plans and resolves joint allocations inside WebAssembly
// linear memory.
//
// Host code that feeds data to a wasm instance typically makes one guest
// allocation per buffer, each a round trip through an exported allocator
// like cabi_realloc. This package applies the jointbuf planner to that
// address space: plan the whole request sequence, make ONE guest
// allocation of the total, and resolve every sub-buffer's u32 address
// inside it.
//
//	var strData, strMeta uint32
//	reqs := []*guest.Request{
//	    guest.MustNewRequest(&strData, 256, 4),
//	    guest.MustNewRequest(&strMeta, 16, 8),
//	}
//	base, total, err := guest.Allocate(reqs, guest.WrapFunction(ctx, realloc))
//
// Addresses are uint32 offsets into linear memory, matching wasm32. Two
// allocator sources are provided:
//
//	WrapFunction     adapts an exported cabi_realloc-style api.Function
//	LinearAllocator  bump-allocates fresh pages at the end of an
//	                 api.Memory, for instances that export no allocator
//
// The planning, ordering, and all-or-nothing failure contracts are
// identical to the root package.
package guest
