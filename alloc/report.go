package alloc

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/segalloc/alloc/sizeclass"
	"github.com/joshuapare/segalloc/pkg/types"
)

// HeapReport summarizes one first-fit heap.
type HeapReport struct {
	Name    string     `json:"name"`
	Start   types.Addr `json:"start"`
	Size    uintptr    `json:"size"`
	Used    uintptr    `json:"used"`
	Free    uintptr    `json:"free"`
	Largest uintptr    `json:"largestHole"`
	Holes   int        `json:"holes"`
}

// BinReport summarizes one non-empty fixed-bin free list.
type BinReport struct {
	Bin       int     `json:"bin"`
	BlockSize uintptr `json:"blockSize"`
	Parked    int     `json:"parked"`
}

// Report is a snapshot of the partition layout and occupancy. It is derived
// from the live structures; the allocator keeps no counters.
type Report struct {
	Region uintptr      `json:"regionSize"`
	Heaps  []HeapReport `json:"heaps"`
	Bins   []BinReport  `json:"bins"`
}

// Snapshot builds a Report. It walks every free list and hole list.
func (a *Allocator) Snapshot() Report {
	var rep Report
	if a.mem == nil {
		return rep
	}
	rep.Region = a.mem.Size()
	for _, h := range a.heaps() {
		rep.Heaps = append(rep.Heaps, HeapReport{
			Name:    h.Name(),
			Start:   h.Bottom(),
			Size:    h.Size(),
			Used:    h.Used(),
			Free:    h.Free(),
			Largest: h.LargestHole(),
			Holes:   len(h.Holes()),
		})
	}
	for bin := range sizeclass.NumFixed {
		if n := a.fixed.Len(bin); n > 0 {
			rep.Bins = append(rep.Bins, BinReport{Bin: bin, BlockSize: sizeclass.BlockSize(bin), Parked: n})
		}
	}
	return rep
}

// WriteReport writes a human-readable Snapshot to w.
func (a *Allocator) WriteReport(w io.Writer) error {
	if a.mem == nil {
		return types.ErrNotInitialized
	}
	rep := a.Snapshot()
	p := message.NewPrinter(language.English)

	if _, err := p.Fprintf(w, "region: %d bytes\n\n", rep.Region); err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "%-10s %-16s %14s %14s %14s %14s %6s\n",
		"heap", "start", "size", "used", "free", "largest", "holes"); err != nil {
		return err
	}
	for _, h := range rep.Heaps {
		if _, err := p.Fprintf(w, "%-10s %-16s %14d %14d %14d %14d %6d\n",
			h.Name, h.Start.String(), h.Size, h.Used, h.Free, h.Largest, h.Holes); err != nil {
			return err
		}
	}

	if len(rep.Bins) == 0 {
		_, err := p.Fprintf(w, "\nfixed bins: all free lists empty\n")
		return err
	}
	if _, err := p.Fprintf(w, "\n%-6s %10s %8s\n", "bin", "block", "parked"); err != nil {
		return err
	}
	for _, b := range rep.Bins {
		if _, err := p.Fprintf(w, "%-6d %10d %8d\n", b.Bin, b.BlockSize, b.Parked); err != nil {
			return err
		}
	}
	return nil
}
