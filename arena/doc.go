// Package arena implements a slab bump allocator for short-lived buffers,
// such as the document chunks and scratch space a retrieval host builds
// per query and throws away in one go.
//
// # Basic Usage
//
//	a := arena.NewArena(0) // 1 MiB slabs
//	defer a.Release()
//
//	buf := a.AllocBytes(512)
//	text := a.CopyString(chunk.Text)
//
//	// Drop everything at once; buf and text are invalid afterwards.
//	a.Reset()
//
// # Slabs
//
// Memory comes from fixed-size slabs held in creation order. A request that
// does not fit in the current slab appends a new one; a request larger than
// the slab size gets a dedicated slab of exactly that size. Reset releases
// every slab and starts over with a single fresh one.
//
// # Alignment
//
// AllocBytes pads only when Config.Align asks for it. The typed helpers
// (Alloc, AllocSlice) always align for their element type.
//
// # Thread Safety
//
// Arena is not safe for concurrent use. SafeArena serializes access with a
// mutex.
//
// # Errors
//
// Allocation failures surface as ErrAllocation, either as a panic from
// AllocBytes or as an error from TryAllocBytes. A failed allocation leaves
// the arena as it was.
package arena
