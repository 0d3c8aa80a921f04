package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/segalloc/alloc/firstfit"
	"github.com/joshuapare/segalloc/alloc/fixedbin"
	"github.com/joshuapare/segalloc/alloc/sizeclass"
	"github.com/joshuapare/segalloc/alloc/varbin"
	"github.com/joshuapare/segalloc/internal/format"
	"github.com/joshuapare/segalloc/internal/logger"
	"github.com/joshuapare/segalloc/internal/region"
	"github.com/joshuapare/segalloc/pkg/types"
)

// Runtime debug flag for per-call logging - controlled by SEGALLOC_LOG_ALLOC env var.
var logAlloc = os.Getenv("SEGALLOC_LOG_ALLOC") != ""

// Allocator routes requests to the fixed bins, the variable pool or the
// fallback heap. It holds no state of its own beyond those components and the
// partition layout.
type Allocator struct {
	opts  Options
	mem   *region.Region
	parts Partitions

	fallback *firstfit.Heap
	vars     *varbin.Pool
	fixed    *fixedbin.Allocator
}

// New returns an allocator in the empty state. Use nil opts for defaults.
// Nothing can be allocated until Init.
func New(opts *Options) *Allocator {
	return &Allocator{
		opts:     resolve(opts),
		fallback: firstfit.New(FallbackPartition),
		vars:     varbin.New(),
	}
}

// Init partitions mem and initializes the fallback heap and the four
// variable heaps. It may be called once; mem must stay owned by the allocator
// for the rest of the process.
func (a *Allocator) Init(mem []byte) error {
	if a.mem != nil {
		return types.ErrAlreadyInitialized
	}
	if err := a.opts.validate(); err != nil {
		return err
	}
	r, err := region.New(mem)
	if err != nil {
		return fmt.Errorf("alloc: init: %w", err)
	}
	parts, err := Plan(r.Span(), a.opts.VariableSliceDivisor)
	if err != nil {
		return fmt.Errorf("alloc: init: %w", err)
	}

	a.mem = r
	a.parts = parts
	a.fallback.Init(parts.Fallback.Start, parts.Fallback.Size)
	a.vars.Init(parts.Variable)
	a.fixed = fixedbin.New(r, a.fallback)

	logger.L.Info("alloc: initialized",
		"region", r.Span().String(),
		"fallback", parts.Fallback.Size,
		"variableSlice", parts.Variable[0].Size,
	)
	return nil
}

// Initialized reports whether Init has succeeded.
func (a *Allocator) Initialized() bool { return a.mem != nil }

// Allocate returns a block satisfying l.
//
// Returns an error wrapping types.ErrOutOfMemory when the serving component
// is exhausted, types.ErrBadAlign for a malformed layout, and
// types.ErrNotInitialized before Init.
func (a *Allocator) Allocate(l types.Layout) (types.Addr, error) {
	if a.mem == nil {
		return types.Null, types.ErrNotInitialized
	}
	if !format.IsPowerOfTwo(l.Align) {
		return types.Null, fmt.Errorf("alloc %s: %w", l, types.ErrBadAlign)
	}

	route := RouteFor(l)
	var (
		addr types.Addr
		err  error
	)
	switch route.Kind {
	case RouteFallback:
		addr, err = a.fallback.AllocateFirstFit(l)
	case RouteFixed:
		addr, err = a.fixed.Allocate(route.Bin)
	case RouteVariable:
		addr, err = a.vars.Allocate(route.Bin, l)
	}
	if err != nil {
		logger.L.Debug("alloc: out of memory", "layout", l, "route", route.String(), "err", err)
		return types.Null, fmt.Errorf("alloc %s via %s: %w", l, route, types.Wrap(types.ErrOutOfMemory, err))
	}

	if logAlloc {
		logger.L.Debug("alloc: ok", "layout", l, "route", route.String(), "addr", addr)
	}
	return addr, nil
}

// Deallocate returns the block at addr to the component that produced it.
// l must be the layout passed to the matching Allocate; a mismatch is a
// caller error and is not detected here.
func (a *Allocator) Deallocate(addr types.Addr, l types.Layout) {
	if a.mem == nil {
		panic(fmt.Sprintf("alloc: deallocate %s before init", addr))
	}

	route := RouteFor(l)
	switch route.Kind {
	case RouteFallback:
		a.fallback.Deallocate(addr, l)
	case RouteFixed:
		a.fixed.Deallocate(route.Bin, addr)
	case RouteVariable:
		a.vars.Deallocate(route.Bin, addr, l)
	}

	if logAlloc {
		logger.L.Debug("alloc: free", "layout", l, "route", route.String(), "addr", addr)
	}
}

// Bytes returns the memory of a live block allocated with l. The slice is
// valid until the block is deallocated.
func (a *Allocator) Bytes(addr types.Addr, l types.Layout) ([]byte, error) {
	if a.mem == nil {
		return nil, types.ErrNotInitialized
	}
	return a.mem.Slice(addr, l.Size)
}

// Partitions returns the layout fixed at Init.
func (a *Allocator) Partitions() Partitions { return a.parts }

// PartitionOf returns the partition holding addr.
func (a *Allocator) PartitionOf(addr types.Addr) (Partition, bool) {
	if a.mem == nil {
		return Partition{}, false
	}
	return a.parts.Find(addr)
}

// FreeListLen returns the number of blocks parked on fixed class bin.
func (a *Allocator) FreeListLen(bin int) int {
	if a.fixed == nil {
		return 0
	}
	return a.fixed.Len(bin)
}

// FallbackHeap exposes the fallback heap for inspection.
func (a *Allocator) FallbackHeap() *firstfit.Heap { return a.fallback }

// VariableHeap exposes the sub-heap of variable slot for inspection.
func (a *Allocator) VariableHeap(slot int) *firstfit.Heap { return a.vars.Heap(slot) }

// heaps returns every first-fit heap in partition order.
func (a *Allocator) heaps() []*firstfit.Heap {
	out := []*firstfit.Heap{a.fallback}
	for slot := range sizeclass.NumVariable {
		out = append(out, a.vars.Heap(slot))
	}
	return out
}
