// Package fixedbin serves the exact size classes with one intrusive free list
// per class.
//
// A freed block is pushed onto its class list by writing the list link into
// the block itself; an allocation pops the head in O(1). On an empty list
// exactly one fresh block of the class size, at the class alignment, is
// requested from the backing source (the fallback heap). Blocks never move
// between classes.
package fixedbin

import (
	"fmt"
	"os"

	"github.com/joshuapare/segalloc/alloc/sizeclass"
	"github.com/joshuapare/segalloc/internal/logger"
	"github.com/joshuapare/segalloc/internal/region"
	"github.com/joshuapare/segalloc/pkg/types"
)

// Runtime debug flag for per-call logging - controlled by SEGALLOC_LOG_ALLOC env var.
var logAlloc = os.Getenv("SEGALLOC_LOG_ALLOC") != ""

// Source provides fresh blocks on a free-list miss.
type Source interface {
	AllocateFirstFit(l types.Layout) (types.Addr, error)
}

// Allocator holds the free-list heads of every exact class.
//
// Not thread-safe; the facade holds the lock for every call.
type Allocator struct {
	mem   *region.Region
	src   Source
	heads [sizeclass.NumFixed]types.Addr // types.Null = empty list
}

// New returns an allocator with all lists empty. Blocks handed out by src
// must lie inside mem.
func New(mem *region.Region, src Source) *Allocator {
	return &Allocator{mem: mem, src: src}
}

// PrimeLayout is the exact request issued to the source when class bin misses.
func PrimeLayout(bin int) types.Layout {
	bs := sizeclass.BlockSize(bin)
	return types.Layout{Size: bs, Align: sizeclass.AlignmentFor(bs)}
}

// Allocate pops a block of class bin, or primes a new one from the source.
func (a *Allocator) Allocate(bin int) (types.Addr, error) {
	a.checkBin(bin)

	if head := a.heads[bin]; !head.IsNull() {
		n := nodeAt(a.mem, head)
		a.heads[bin] = n.next()
		n.setNext(types.Null)
		if logAlloc {
			logger.L.Debug("fixedbin: reuse", "bin", bin, "addr", head)
		}
		return head, nil
	}

	l := PrimeLayout(bin)
	addr, err := a.src.AllocateFirstFit(l)
	if err != nil {
		logger.L.Debug("fixedbin: prime failed", "bin", bin, "layout", l, "err", err)
		return types.Null, fmt.Errorf("fixedbin: prime class %d (%d bytes): %w", bin, l.Size, err)
	}
	if logAlloc {
		logger.L.Debug("fixedbin: primed", "bin", bin, "layout", l, "addr", addr)
	}
	return addr, nil
}

// Deallocate pushes the block at addr onto the list of class bin.
func (a *Allocator) Deallocate(bin int, addr types.Addr) {
	a.checkBin(bin)
	bs := sizeclass.BlockSize(bin)
	checkNodeFits(bs, sizeclass.AlignmentFor(bs))

	n := nodeAt(a.mem, addr)
	n.setNext(a.heads[bin])
	a.heads[bin] = addr

	if logAlloc {
		logger.L.Debug("fixedbin: push", "bin", bin, "addr", addr)
	}
}

// Len walks the list of class bin and returns its length.
func (a *Allocator) Len(bin int) int {
	a.checkBin(bin)
	count := 0
	for cur := a.heads[bin]; !cur.IsNull(); cur = nodeAt(a.mem, cur).next() {
		count++
	}
	return count
}

// Head returns the current head of class bin, or types.Null.
func (a *Allocator) Head(bin int) types.Addr {
	a.checkBin(bin)
	return a.heads[bin]
}

func (a *Allocator) checkBin(bin int) {
	if bin < 0 || bin >= sizeclass.NumFixed {
		panic(fmt.Sprintf("fixedbin: class %d has no free list (0..%d)", bin, sizeclass.NumFixed-1))
	}
}
