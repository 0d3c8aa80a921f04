// Package sizeclass holds the static size-class table and the pure
// classification function that maps a request to a bin.
//
// The table is strictly ascending. Its first NumFixed entries (8..504, step 8)
// are "exact" classes served by intrusive free lists; the last NumVariable
// entries (1024, 4096, 16384, 65536) are served by dedicated first-fit
// sub-heaps.
package sizeclass

import (
	"sort"

	"github.com/joshuapare/segalloc/internal/format"
)

const (
	// MaxFixed is the largest block size served by a fixed bin.
	MaxFixed = 504

	// MaxBin is the largest block size in the table.
	MaxBin = 65536

	// NumVariable is the number of variable (sub-heap backed) classes.
	NumVariable = 4

	// MinAlign is the alignment floor applied to every class.
	MinAlign = 8
)

var blockSizes = [...]uintptr{
	8, 16, 24, 32, 40, 48, 56, 64, 72, 80, 88, 96, 104, 112, 120, 128,
	136, 144, 152, 160, 168, 176, 184, 192, 200, 208, 216, 224, 232, 240,
	248, 256, 264, 272, 280, 288, 296, 304, 312, 320, 328, 336, 344, 352,
	360, 368, 376, 384, 392, 400, 408, 416, 424, 432, 440, 448, 456, 464,
	472, 480, 488, 496, 504,
	1024, 4096, 16384, 65536,
}

const (
	// NumClasses is the number of entries in the table.
	NumClasses = len(blockSizes)

	// NumFixed is the number of exact classes, one free-list head each.
	NumFixed = NumClasses - NumVariable
)

// Class describes one table entry.
type Class struct {
	Index     int
	BlockSize uintptr
	Align     uintptr
}

// Classify returns the smallest index whose block size is >= max(size, align).
// ok is false when no class is large enough.
func Classify(size, align uintptr) (index int, ok bool) {
	need := max(size, align)
	i := sort.Search(NumClasses, func(i int) bool { return blockSizes[i] >= need })
	if i == NumClasses {
		return 0, false
	}
	return i, true
}

// AlignmentFor returns the smallest power of two >= size, floored at MinAlign.
// A block of that class carved at this alignment satisfies any request the
// class accepts.
func AlignmentFor(size uintptr) uintptr {
	return format.NextPowerOfTwo(size, MinAlign)
}

// BlockSize returns the block size of class i.
func BlockSize(i int) uintptr {
	return blockSizes[i]
}

// Get returns the full description of class i.
func Get(i int) Class {
	bs := blockSizes[i]
	return Class{Index: i, BlockSize: bs, Align: AlignmentFor(bs)}
}

// All returns every class in ascending order.
func All() []Class {
	out := make([]Class, NumClasses)
	for i := range out {
		out[i] = Get(i)
	}
	return out
}

// IsFixed reports whether class i is routed to the fixed-bin free lists.
//
// The second clause matches classes larger than the table maximum. Since the
// largest entry equals MaxBin it never holds for a real index; it is kept so
// routing stays identical if the table is ever extended past MaxBin.
func IsFixed(i int) bool {
	bs := blockSizes[i]
	return bs <= MaxFixed || bs > MaxBin
}

// VariableSlot returns the sub-heap slot (0..NumVariable-1) serving class i.
func VariableSlot(i int) (int, bool) {
	if i < 0 || i >= NumClasses || IsFixed(i) {
		return 0, false
	}
	return i - NumFixed, true
}
