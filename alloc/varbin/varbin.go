// Package varbin serves the variable size classes (1024, 4096, 16384, 65536)
// from four independent first-fit sub-heaps, one per class, each confined to
// its own slice of the backing region.
//
// A request is handed to its class heap as-is (not rounded to the class
// size), so small requests in a large class waste little space. A heap that
// runs dry fails the request: there is no spill-over to another class and no
// fallback to the general heap.
package varbin

import (
	"errors"
	"fmt"
	"os"

	"github.com/joshuapare/segalloc/alloc/firstfit"
	"github.com/joshuapare/segalloc/alloc/sizeclass"
	"github.com/joshuapare/segalloc/internal/logger"
	"github.com/joshuapare/segalloc/internal/region"
	"github.com/joshuapare/segalloc/pkg/types"
)

// Runtime debug flag for per-call logging - controlled by SEGALLOC_LOG_ALLOC env var.
var logAlloc = os.Getenv("SEGALLOC_LOG_ALLOC") != ""

// ErrNotVariable indicates a class index that is not one of the variable classes.
var ErrNotVariable = errors.New("varbin: class is not a variable class")

// Pool owns one sub-heap per variable class.
//
// Not thread-safe; the facade holds the lock for every call.
type Pool struct {
	heaps [sizeclass.NumVariable]*firstfit.Heap
}

// New returns a pool whose heaps are empty until Init.
func New() *Pool {
	p := &Pool{}
	for slot := range p.heaps {
		bs := sizeclass.BlockSize(sizeclass.NumFixed + slot)
		p.heaps[slot] = firstfit.New(fmt.Sprintf("var-%d", bs))
	}
	return p
}

// Init hands each heap its slice, in class order.
func (p *Pool) Init(slices [sizeclass.NumVariable]region.Span) {
	for slot, s := range slices {
		p.heaps[slot].Init(s.Start, s.Size)
	}
}

// Allocate serves l from the heap of class bin.
func (p *Pool) Allocate(bin int, l types.Layout) (types.Addr, error) {
	h, err := p.heapFor(bin)
	if err != nil {
		return types.Null, err
	}
	addr, err := h.AllocateFirstFit(l)
	if err != nil {
		if logAlloc {
			logger.L.Debug("varbin: allocation failed", "heap", h.Name(), "layout", l,
				"free", h.Free(), "largest", h.LargestHole())
		}
		return types.Null, fmt.Errorf("varbin: %s: %w", h.Name(), err)
	}
	return addr, nil
}

// Deallocate returns a block to the heap of class bin. l must be the layout
// used at allocation.
func (p *Pool) Deallocate(bin int, addr types.Addr, l types.Layout) {
	h, err := p.heapFor(bin)
	if err != nil {
		panic(fmt.Sprintf("varbin: deallocate %s: %v", addr, err))
	}
	h.Deallocate(addr, l)
}

// Heap returns the sub-heap at slot (0..NumVariable-1).
func (p *Pool) Heap(slot int) *firstfit.Heap {
	return p.heaps[slot]
}

// SlotOf returns the slot whose heap range contains addr.
func (p *Pool) SlotOf(addr types.Addr) (int, bool) {
	for slot, h := range p.heaps {
		if h.Contains(addr) {
			return slot, true
		}
	}
	return 0, false
}

func (p *Pool) heapFor(bin int) (*firstfit.Heap, error) {
	slot, ok := sizeclass.VariableSlot(bin)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotVariable, bin)
	}
	return p.heaps[slot], nil
}
