// Package firstfit implements the general-purpose sub-heap used both as the
// fallback heap and as each of the four variable-bin heaps.
//
// # Overview
//
// A Heap manages one fixed address range. Free space is kept as an
// address-ordered list of holes; allocation walks the list and takes the
// first hole that can hold the request at its alignment. Freed blocks are
// merged with both neighbours, so the list never holds two adjacent holes.
//
// The heap never reads or writes the memory it manages: holes are tracked as
// (address, size) pairs in Go memory. This keeps it usable over any address
// range and confines raw-memory access to the fixed-bin free lists.
//
// # Block sizes
//
// Requests are rounded up to a multiple of 8 bytes with a 16-byte minimum
// (MinBlockSize). The same rounding is applied on Deallocate, so callers must
// pass the layout used at allocation time.
//
// # Alignment
//
// Block addresses are aligned to max(layout.Align, 8). Padding skipped in
// front of an aligned block stays in the hole list and remains allocatable.
//
// # Thread Safety
//
// Heap instances are not thread-safe. The allocator facade serializes all
// access behind a single lock.
package firstfit
