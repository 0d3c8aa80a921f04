package alloc

import (
	"io"

	"github.com/joshuapare/segalloc/internal/locked"
	"github.com/joshuapare/segalloc/pkg/types"
)

// GlobalAllocator is the process-wide allocate/deallocate capability.
// Alloc reports failure as types.Null and never panics on exhaustion.
type GlobalAllocator interface {
	Alloc(l types.Layout) types.Addr
	Dealloc(addr types.Addr, l types.Layout)
}

// Global is one Allocator behind an exclusive-access cell. Construct one at
// process startup and hand it out as a GlobalAllocator.
type Global struct {
	cell *locked.Locked[*Allocator]
}

// Compile-time interface check
var _ GlobalAllocator = (*Global)(nil)

// NewGlobal returns an uninitialized, lock-guarded allocator.
func NewGlobal(opts *Options) *Global {
	return &Global{cell: locked.New(New(opts))}
}

func (g *Global) with(fn func(a *Allocator)) {
	g.cell.With(func(a **Allocator) { fn(*a) })
}

// Init partitions mem. See Allocator.Init.
func (g *Global) Init(mem []byte) error {
	var err error
	g.with(func(a *Allocator) { err = a.Init(mem) })
	return err
}

// Alloc allocates under the lock and returns types.Null on any failure.
func (g *Global) Alloc(l types.Layout) types.Addr {
	guard := g.cell.Acquire()
	defer guard.Release()

	addr, err := (*guard.Value()).Allocate(l)
	if err != nil {
		return types.Null
	}
	return addr
}

// Dealloc frees under the lock. l must match the layout given to Alloc.
func (g *Global) Dealloc(addr types.Addr, l types.Layout) {
	guard := g.cell.Acquire()
	defer guard.Release()

	(*guard.Value()).Deallocate(addr, l)
}

// Inspect runs fn with exclusive access to the allocator. fn must not retain a.
func (g *Global) Inspect(fn func(a *Allocator)) {
	g.with(fn)
}

// WriteReport writes the allocator report under the lock.
func (g *Global) WriteReport(w io.Writer) error {
	var err error
	g.with(func(a *Allocator) { err = a.WriteReport(w) })
	return err
}
