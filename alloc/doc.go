// Package alloc provides a size-class segregated allocator over a single,
// pre-mapped backing region.
//
// # Overview
//
// The region is partitioned once, at Init, into five disjoint ranges:
//
//	[ fallback heap: 3/4 ][ 1024 ][ 4096 ][ 16384 ][ 65536 ]
//	                       1/16    1/16    1/16     1/16
//
// Every request is classified by the static size-class table
// (alloc/sizeclass) and routed to exactly one server:
//
//   - Fixed bins (block size <= 504): an intrusive free list per class
//     (alloc/fixedbin). A miss carves one block of exactly the class size
//     from the fallback heap.
//   - Variable bins (1024, 4096, 16384, 65536): a dedicated first-fit
//     sub-heap per class (alloc/varbin), confined to its 1/16 slice.
//   - Unclassifiable requests (larger than 65536, or aligned beyond it):
//     the fallback heap (alloc/firstfit) directly.
//
// Deallocation classifies the same layout again, so a block always returns
// to the component that produced it. Callers must pass the layout used at
// allocation.
//
// # Usage Example
//
//	mem, unmap, err := region.Map(16 << 20)
//	if err != nil {
//	    return err
//	}
//	defer unmap()
//
//	g := alloc.NewGlobal(nil)
//	if err := g.Init(mem); err != nil {
//	    return err
//	}
//
//	l := types.MustLayout(48, 8)
//	p := g.Alloc(l)
//	if p == types.Null {
//	    // out of memory
//	}
//	g.Dealloc(p, l)
//
// # Failure Semantics
//
// Allocation failure is reported, never retried: Allocator.Allocate returns
// an error wrapping types.ErrOutOfMemory, and the GlobalAllocator capability
// returns types.Null. Blocks are never moved once returned, and the region
// never grows.
//
// # Thread Safety
//
// Allocator is not thread-safe. Global wraps one Allocator in an
// exclusive-access cell and holds it for the full duration of every call.
package alloc
