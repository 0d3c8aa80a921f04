package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/joshuapare/segalloc/alloc"
	"github.com/joshuapare/segalloc/alloc/sizeclass"
	"github.com/joshuapare/segalloc/pkg/types"
)

var (
	stressOps  int
	stressSeed uint64
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressOps, "ops", 100000, "Number of allocate/deallocate operations")
	cmd.Flags().Uint64Var(&stressSeed, "seed", 1, "Random seed")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run a randomized allocate/deallocate workload and verify integrity",
		Long: `The stress command interleaves allocations and deallocations of random
layouts (mostly small, some medium, a few larger than the biggest class),
fills each block with a pattern, verifies the pattern before freeing it, and
checks that every block comes from the partition its size class owns and that
no two live blocks overlap.

Example:
  heapctl stress
  heapctl stress --ops 1000000 --seed 42 --region-size 67108864`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
	return cmd
}

// StressResult is the JSON shape of the stress command.
type StressResult struct {
	Ops      int          `json:"ops"`
	Allocs   int          `json:"allocs"`
	Frees    int          `json:"frees"`
	Failures int          `json:"failures"`
	Live     int          `json:"live"`
	Report   alloc.Report `json:"report"`
}

type liveBlock struct {
	addr types.Addr
	l    types.Layout
	seed byte
}

// pickLayout favours the fixed classes the way a typical runtime would.
func pickLayout(rng *rand.Rand) types.Layout {
	var size uintptr
	switch n := rng.IntN(100); {
	case n < 80:
		size = uintptr(1 + rng.IntN(504))
	case n < 97:
		size = uintptr(505 + rng.IntN(65536-505))
	default:
		size = uintptr(65537 + rng.IntN(1<<18))
	}
	return types.Layout{Size: size, Align: uintptr(1) << rng.IntN(7)}
}

func runStress() error {
	g, cleanup, err := newGlobal()
	if err != nil {
		return err
	}
	defer cleanup()

	rng := rand.New(rand.NewPCG(stressSeed, stressSeed^0x9e3779b97f4a7c15))
	res := StressResult{Ops: stressOps}
	var live []liveBlock

	view := func(b liveBlock) []byte {
		var out []byte
		g.Inspect(func(a *alloc.Allocator) { out, _ = a.Bytes(b.addr, b.l) })
		return out
	}

	for op := range stressOps {
		if len(live) > 0 && rng.IntN(2) == 0 {
			i := rng.IntN(len(live))
			b := live[i]
			if err := checkPattern(view(b), b.seed); err != nil {
				return fmt.Errorf("op %d: block %s %s: %w", op, b.addr, b.l, err)
			}
			g.Dealloc(b.addr, b.l)
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
			res.Frees++
			continue
		}

		l := pickLayout(rng)
		addr := g.Alloc(l)
		if addr.IsNull() {
			res.Failures++
			printVerbose("op %d: %s out of memory\n", op, l)
			continue
		}
		if uintptr(addr)%l.Align != 0 {
			return fmt.Errorf("op %d: %s returned misaligned %s", op, l, addr)
		}
		if err := checkOwner(g, addr, l); err != nil {
			return fmt.Errorf("op %d: %w", op, err)
		}
		b := liveBlock{addr: addr, l: l, seed: byte(op)}
		fillPattern(view(b), b.seed)
		live = append(live, b)
		res.Allocs++
	}

	if err := checkDisjoint(live); err != nil {
		return err
	}
	res.Live = len(live)
	g.Inspect(func(a *alloc.Allocator) { res.Report = a.Snapshot() })

	if jsonOut {
		return printJSON(res)
	}
	printInfo("ops: %d  allocs: %d  frees: %d  failures: %d  live: %d\n\n",
		res.Ops, res.Allocs, res.Frees, res.Failures, res.Live)
	if quiet {
		return nil
	}
	return g.WriteReport(os.Stdout)
}

// expectedPartition names the partition a block of layout l must come from.
// Fixed-bin blocks are primed from the fallback heap.
func expectedPartition(l types.Layout) string {
	route := alloc.RouteFor(l)
	if route.Kind != alloc.RouteVariable {
		return alloc.FallbackPartition
	}
	slot, _ := sizeclass.VariableSlot(route.Bin)
	return alloc.VariablePartitionName(slot)
}

func checkOwner(g *alloc.Global, addr types.Addr, l types.Layout) error {
	var (
		part alloc.Partition
		ok   bool
	)
	g.Inspect(func(a *alloc.Allocator) { part, ok = a.PartitionOf(addr) })
	want := expectedPartition(l)
	if !ok || part.Name != want {
		return fmt.Errorf("%s at %s: owned by %q, want %q", l, addr, part.Name, want)
	}
	return nil
}

func fillPattern(b []byte, seed byte) {
	for i := range b {
		b[i] = seed ^ byte(i)
	}
}

func checkPattern(b []byte, seed byte) error {
	for i := range b {
		if b[i] != seed^byte(i) {
			return fmt.Errorf("corrupted at byte %d: got 0x%02x want 0x%02x", i, b[i], seed^byte(i))
		}
	}
	return nil
}

// checkDisjoint verifies that no two live blocks share a byte.
func checkDisjoint(live []liveBlock) error {
	sorted := slices.Clone(live)
	slices.SortFunc(sorted, func(a, b liveBlock) int {
		switch {
		case a.addr < b.addr:
			return -1
		case a.addr > b.addr:
			return 1
		default:
			return 0
		}
	})
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.addr.Add(prev.l.Size) > cur.addr {
			return fmt.Errorf("live blocks overlap: %s %s and %s %s", prev.addr, prev.l, cur.addr, cur.l)
		}
	}
	return nil
}
