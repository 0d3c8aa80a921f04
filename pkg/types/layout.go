package types

import "fmt"

// Addr is an absolute address inside the backing region.
type Addr uintptr

// Null is the null/invalid address returned when an allocation fails.
const Null Addr = 0

// IsNull reports whether a is the null sentinel.
func (a Addr) IsNull() bool { return a == Null }

// Add returns a advanced by n bytes.
func (a Addr) Add(n uintptr) Addr { return a + Addr(n) }

// String formats the address in hex.
func (a Addr) String() string { return fmt.Sprintf("0x%x", uintptr(a)) }

// Layout describes one allocation request: a size in bytes and a power-of-two
// alignment. The same Layout must be passed to the matching deallocation.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// NewLayout validates align and returns the layout.
func NewLayout(size, align uintptr) (Layout, error) {
	if align == 0 || align&(align-1) != 0 {
		return Layout{}, fmt.Errorf("layout size=%d align=%d: %w", size, align, ErrBadAlign)
	}
	return Layout{Size: size, Align: align}, nil
}

// MustLayout is NewLayout for constant requests; it panics on a bad alignment.
func MustLayout(size, align uintptr) Layout {
	l, err := NewLayout(size, align)
	if err != nil {
		panic(err)
	}
	return l
}

func (l Layout) String() string {
	return fmt.Sprintf("{size:%d align:%d}", l.Size, l.Align)
}
