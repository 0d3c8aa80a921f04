package firstfit

import (
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/joshuapare/segalloc/internal/format"
	"github.com/joshuapare/segalloc/internal/logger"
	"github.com/joshuapare/segalloc/internal/region"
	"github.com/joshuapare/segalloc/pkg/types"
)

// Runtime debug flag for per-call logging - controlled by SEGALLOC_LOG_ALLOC env var.
var logAlloc = os.Getenv("SEGALLOC_LOG_ALLOC") != ""

const (
	// MinBlockSize is the smallest block the heap hands out or tracks as a
	// standalone allocation (two words).
	MinBlockSize = 2 * format.WordSize

	// minAlign is the alignment every block start is rounded to.
	minAlign = format.WordSize
)

// hole is a free address range.
type hole struct {
	addr types.Addr
	size uintptr
}

func (h hole) end() types.Addr { return h.addr.Add(h.size) }

// Heap is a first-fit allocator over [Bottom, Top).
type Heap struct {
	name   string
	bottom types.Addr
	size   uintptr

	// holes is sorted by address; no two entries touch.
	holes []hole
}

// New returns an empty heap. name is only used in log records and panics.
func New(name string) *Heap {
	return &Heap{name: name}
}

// Init gives the heap the range [start, start+size). The start is aligned up
// to 8 bytes and the end aligned down; a range too small for one block leaves
// the heap empty. Calling Init again discards all state.
func (h *Heap) Init(start types.Addr, size uintptr) {
	aligned := types.Addr(format.AlignUp(uintptr(start), minAlign))
	skew := uintptr(aligned - start)
	if skew > size {
		size = 0
	} else {
		size = format.AlignDown(size-skew, minAlign)
	}

	h.bottom = aligned
	h.size = size
	h.holes = h.holes[:0]
	if size >= MinBlockSize {
		h.holes = append(h.holes, hole{addr: aligned, size: size})
	}

	logger.L.Debug("firstfit: init", "heap", h.name, "start", aligned, "size", size)
}

// Name returns the label given to New.
func (h *Heap) Name() string { return h.name }

// Bottom returns the first managed address.
func (h *Heap) Bottom() types.Addr { return h.bottom }

// Top returns the first address past the managed range.
func (h *Heap) Top() types.Addr { return h.bottom.Add(h.size) }

// Size returns the managed range length.
func (h *Heap) Size() uintptr { return h.size }

// Contains reports whether addr lies inside the managed range.
func (h *Heap) Contains(addr types.Addr) bool {
	return addr >= h.bottom && addr < h.Top()
}

// Free returns the total bytes currently held in holes.
func (h *Heap) Free() uintptr {
	var total uintptr
	for _, hl := range h.holes {
		total += hl.size
	}
	return total
}

// Used returns the bytes not currently free.
func (h *Heap) Used() uintptr { return h.size - h.Free() }

// LargestHole returns the size of the biggest hole.
func (h *Heap) LargestHole() uintptr {
	var largest uintptr
	for _, hl := range h.holes {
		largest = max(largest, hl.size)
	}
	return largest
}

// Holes returns a copy of the free ranges in address order.
func (h *Heap) Holes() []region.Span {
	out := make([]region.Span, len(h.holes))
	for i, hl := range h.holes {
		out[i] = region.Span{Start: hl.addr, Size: hl.size}
	}
	return out
}

// Span returns the managed range.
func (h *Heap) Span() region.Span {
	return region.Span{Start: h.bottom, Size: h.size}
}

// maxRequest is the largest size whose 8-byte rounding does not wrap.
const maxRequest = ^uintptr(0) &^ (minAlign - 1)

// BlockSize returns the number of bytes the heap reserves for l. Sizes whose
// rounding would wrap saturate at maxRequest, which no heap can hold.
func BlockSize(l types.Layout) uintptr {
	if l.Size > maxRequest {
		return maxRequest
	}
	return max(format.Align8(l.Size), MinBlockSize)
}

// AllocateFirstFit returns the first block that fits l.
//
// Returns ErrNoSpace if no hole can hold the request at its alignment.
func (h *Heap) AllocateFirstFit(l types.Layout) (types.Addr, error) {
	if h.size == 0 {
		return types.Null, ErrUninitialized
	}

	need := BlockSize(l)
	if need > h.size {
		if logAlloc {
			logger.L.Debug("firstfit: request exceeds heap", "heap", h.name, "layout", l, "size", h.size)
		}
		return types.Null, ErrNoSpace
	}
	align := max(l.Align, minAlign)

	for i, hl := range h.holes {
		start := types.Addr(format.AlignUp(uintptr(hl.addr), align))
		if start < hl.addr || start >= hl.end() {
			continue
		}
		if uintptr(hl.end()-start) < need {
			continue
		}
		h.carve(i, start, need)
		if logAlloc {
			logger.L.Debug("firstfit: alloc", "heap", h.name, "layout", l, "addr", start, "block", need)
		}
		return start, nil
	}

	if logAlloc {
		logger.L.Debug("firstfit: no space",
			"heap", h.name, "layout", l, "free", h.Free(), "largest", h.LargestHole())
	}
	return types.Null, ErrNoSpace
}

// carve removes [start, start+n) from hole i, keeping the front padding and
// the tail remainder as holes.
func (h *Heap) carve(i int, start types.Addr, n uintptr) {
	hl := h.holes[i]
	front := hole{addr: hl.addr, size: uintptr(start - hl.addr)}
	back := hole{addr: start.Add(n), size: uintptr(hl.end() - start.Add(n))}

	switch {
	case front.size > 0 && back.size > 0:
		h.holes[i] = front
		h.holes = slices.Insert(h.holes, i+1, back)
	case front.size > 0:
		h.holes[i] = front
	case back.size > 0:
		h.holes[i] = back
	default:
		h.holes = slices.Delete(h.holes, i, i+1)
	}
}

// Deallocate returns a block obtained from AllocateFirstFit with the same
// layout. The block is merged with adjacent holes.
//
// A block outside the heap or overlapping an existing hole means the caller
// broke the deallocation contract (wrong layout, double free, foreign
// pointer); the heap panics rather than corrupt its hole list.
func (h *Heap) Deallocate(addr types.Addr, l types.Layout) {
	n := BlockSize(l)
	blk := hole{addr: addr, size: n}
	if addr < h.bottom || n > h.size || blk.end() > h.Top() || blk.end() < addr {
		panic(fmt.Sprintf("firstfit: %s: deallocate %s+%d outside heap [%s, %s)",
			h.name, addr, n, h.bottom, h.Top()))
	}

	// First hole starting after addr.
	i := sort.Search(len(h.holes), func(i int) bool { return h.holes[i].addr > addr })

	if i < len(h.holes) && h.holes[i].addr < blk.end() {
		panic(fmt.Sprintf("firstfit: %s: deallocate %s+%d overlaps free block at %s",
			h.name, addr, n, h.holes[i].addr))
	}
	if i > 0 && h.holes[i-1].end() > addr {
		panic(fmt.Sprintf("firstfit: %s: deallocate %s+%d overlaps free block at %s",
			h.name, addr, n, h.holes[i-1].addr))
	}

	mergePrev := i > 0 && h.holes[i-1].end() == addr
	mergeNext := i < len(h.holes) && h.holes[i].addr == blk.end()

	switch {
	case mergePrev && mergeNext:
		h.holes[i-1].size += n + h.holes[i].size
		h.holes = slices.Delete(h.holes, i, i+1)
	case mergePrev:
		h.holes[i-1].size += n
	case mergeNext:
		h.holes[i].addr = addr
		h.holes[i].size += n
	default:
		h.holes = slices.Insert(h.holes, i, blk)
	}

	if logAlloc {
		logger.L.Debug("firstfit: free", "heap", h.name, "layout", l, "addr", addr,
			"mergedPrev", mergePrev, "mergedNext", mergeNext)
	}
}
