// Package arena provides in-process implementations of the jointbuf
// Allocator interface, so joint allocations work without an external
// allocator binding.
//
// Two backends:
//
//	GoAllocator   GC-backed; each Alloc gets its own aligned block and the
//	              backing memory is pinned until the matching Free.
//	Arena         one fixed buffer handed out bump-style; individual Free
//	              is a no-op, Reset reclaims everything at once.
//
// GoAllocator suits general use; Arena suits per-frame or per-request
// workloads where everything is discarded together.
//
// Both are safe for concurrent use by multiple goroutines.
package arena
