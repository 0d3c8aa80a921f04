// Package region wraps the caller-owned backing memory the allocator carves
// blocks from. Every other package works with addresses (types.Addr) and
// spans; only code holding a *Region can turn an address back into bytes.
package region

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/segalloc/pkg/types"
)

// Span is a half-open address range [Start, Start+Size).
type Span struct {
	Start types.Addr
	Size  uintptr
}

// End returns the first address past the span.
func (s Span) End() types.Addr { return s.Start.Add(s.Size) }

// Contains reports whether addr lies inside the span.
func (s Span) Contains(addr types.Addr) bool {
	return addr >= s.Start && addr < s.End()
}

// ContainsRange reports whether [addr, addr+n) lies inside the span.
func (s Span) ContainsRange(addr types.Addr, n uintptr) bool {
	return addr >= s.Start && uintptr(addr-s.Start) <= s.Size && n <= s.Size-uintptr(addr-s.Start)
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	if s.Size == 0 || o.Size == 0 {
		return false
	}
	return s.Start < o.End() && o.Start < s.End()
}

func (s Span) String() string {
	return fmt.Sprintf("[%s, %s)", s.Start, s.End())
}

// Region is a contiguous byte range with a fixed base address.
type Region struct {
	base types.Addr
	mem  []byte
}

// New wraps mem. The slice must stay owned by the caller's allocator for the
// rest of the process; the region never copies or grows it.
func New(mem []byte) (*Region, error) {
	if len(mem) == 0 {
		return nil, ErrEmpty
	}
	base := types.Addr(uintptr(unsafe.Pointer(unsafe.SliceData(mem))))
	return &Region{base: base, mem: mem}, nil
}

// Base returns the address of the first byte.
func (r *Region) Base() types.Addr { return r.base }

// Size returns the region length in bytes.
func (r *Region) Size() uintptr { return uintptr(len(r.mem)) }

// Span returns the whole region as a span.
func (r *Region) Span() Span { return Span{Start: r.base, Size: r.Size()} }

// Contains reports whether addr lies inside the region.
func (r *Region) Contains(addr types.Addr) bool { return r.Span().Contains(addr) }

// Slice returns the n bytes starting at addr.
func (r *Region) Slice(addr types.Addr, n uintptr) ([]byte, error) {
	if !r.Span().ContainsRange(addr, n) {
		return nil, fmt.Errorf("%w: %s+%d outside %s", ErrOutOfRange, addr, n, r.Span())
	}
	off := uintptr(addr - r.base)
	return r.mem[off : off+n : off+n], nil
}
