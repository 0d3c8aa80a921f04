// Package format holds the low-level arithmetic shared by the allocator
// packages: power-of-two alignment and machine-word encoding inside the
// backing region.
package format

// WordSize is the size of one machine word stored inside the region.
const WordSize = 8

// WordAlignmentMask masks the low bits of a word-aligned quantity.
const WordAlignmentMask = WordSize - 1

// IsPowerOfTwo reports whether n is a non-zero power of two.
func IsPowerOfTwo(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}

// AlignUp returns n aligned up to align, which must be a power of two.
//
// Example:
//
//	AlignUp(1, 8)    = 8
//	AlignUp(8, 8)    = 8
//	AlignUp(9, 64)   = 64
//	AlignUp(65, 64)  = 128
func AlignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// AlignDown returns n aligned down to align, which must be a power of two.
func AlignDown(n, align uintptr) uintptr {
	return n &^ (align - 1)
}

// Align8 returns n aligned up to the next word boundary.
func Align8(n uintptr) uintptr {
	return (n + WordAlignmentMask) &^ WordAlignmentMask
}

// IsAligned reports whether n is a multiple of align.
func IsAligned(n, align uintptr) bool {
	return n&(align-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n, floored at floor.
//
// Example:
//
//	NextPowerOfTwo(24, 8)  = 32
//	NextPowerOfTwo(3, 8)   = 8
//	NextPowerOfTwo(512, 8) = 512
func NextPowerOfTwo(n, floor uintptr) uintptr {
	p := floor
	for p < n {
		p <<= 1
	}
	return p
}
