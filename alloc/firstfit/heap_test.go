package firstfit

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/segalloc/internal/region"
	"github.com/joshuapare/segalloc/pkg/types"
)

const testBase types.Addr = 0x10000

func newHeap(t *testing.T, size uintptr) *Heap {
	t.Helper()
	h := New("test")
	h.Init(testBase, size)
	return h
}

// requireConsistent checks the hole list invariants: sorted, non-touching,
// inside the heap, and every hole at least one word.
func requireConsistent(t *testing.T, h *Heap) {
	t.Helper()
	holes := h.Holes()
	for i, s := range holes {
		require.True(t, h.Span().ContainsRange(s.Start, s.Size), "hole %d %s outside heap", i, s)
		require.NotZero(t, s.Size, "hole %d empty", i)
		require.Zero(t, uintptr(s.Start)%8, "hole %d misaligned", i)
		if i > 0 {
			require.Less(t, holes[i-1].End(), s.Start, "holes %d and %d touch or overlap", i-1, i)
		}
	}
}

func TestInitAlignsRange(t *testing.T) {
	h := New("skewed")
	h.Init(testBase+3, 1000)

	require.Equal(t, testBase+8, h.Bottom())
	require.Equal(t, uintptr(992), h.Size())
	require.Equal(t, uintptr(992), h.Free())
	require.Zero(t, h.Used())
	requireConsistent(t, h)
}

func TestInitTooSmall(t *testing.T) {
	h := newHeap(t, 8)
	_, err := h.AllocateFirstFit(types.MustLayout(8, 8))
	require.ErrorIs(t, err, ErrNoSpace)

	empty := New("empty")
	_, err = empty.AllocateFirstFit(types.MustLayout(8, 8))
	require.ErrorIs(t, err, ErrUninitialized)
}

func TestBlockSizeRounding(t *testing.T) {
	require.Equal(t, uintptr(16), BlockSize(types.MustLayout(0, 1)))
	require.Equal(t, uintptr(16), BlockSize(types.MustLayout(8, 8)))
	require.Equal(t, uintptr(24), BlockSize(types.MustLayout(17, 8)))
	require.Equal(t, uintptr(4096), BlockSize(types.MustLayout(4096, 4096)))
}

func TestHugeRequestsDoNotWrap(t *testing.T) {
	h := newHeap(t, 1024)

	for _, size := range []uintptr{^uintptr(0), ^uintptr(0) - 6, ^uintptr(0) - 7, 1025} {
		l := types.MustLayout(size, 8)
		require.GreaterOrEqual(t, BlockSize(l), min(size, maxRequest), "size %#x", size)

		a, err := h.AllocateFirstFit(l)
		require.ErrorIs(t, err, ErrNoSpace, "size %#x", size)
		require.Equal(t, types.Null, a)
	}
	require.Zero(t, h.Used())
	require.Equal(t, []region.Span{h.Span()}, h.Holes())

	require.Panics(t, func() { h.Deallocate(testBase, types.MustLayout(^uintptr(0), 8)) })
	require.Zero(t, h.Used())
}

func TestFirstFitTakesLowestHole(t *testing.T) {
	h := newHeap(t, 1024)
	l := types.MustLayout(64, 8)

	a, err := h.AllocateFirstFit(l)
	require.NoError(t, err)
	b, err := h.AllocateFirstFit(l)
	require.NoError(t, err)
	c, err := h.AllocateFirstFit(l)
	require.NoError(t, err)

	require.Equal(t, testBase, a)
	require.Equal(t, testBase+64, b)
	require.Equal(t, testBase+128, c)

	// Free the middle block: the next fitting request reuses it.
	h.Deallocate(b, l)
	requireConsistent(t, h)
	d, err := h.AllocateFirstFit(l)
	require.NoError(t, err)
	require.Equal(t, b, d)
}

func TestAlignedAllocationKeepsPadding(t *testing.T) {
	h := newHeap(t, 4096)

	small, err := h.AllocateFirstFit(types.MustLayout(16, 8))
	require.NoError(t, err)
	require.Equal(t, testBase, small)

	aligned, err := h.AllocateFirstFit(types.MustLayout(64, 256))
	require.NoError(t, err)
	require.Zero(t, uintptr(aligned)%256)

	// The padding between the two blocks is still allocatable.
	pad, err := h.AllocateFirstFit(types.MustLayout(16, 8))
	require.NoError(t, err)
	require.Equal(t, testBase+16, pad)
	requireConsistent(t, h)
}

func TestExhaustion(t *testing.T) {
	h := newHeap(t, 4*4096)
	l := types.MustLayout(4096, 8)

	for i := range 4 {
		_, err := h.AllocateFirstFit(l)
		require.NoError(t, err, "allocation %d", i)
	}
	_, err := h.AllocateFirstFit(l)
	require.ErrorIs(t, err, ErrNoSpace)
	require.Zero(t, h.Free())
	require.Empty(t, h.Holes())
}

func TestDeallocateCoalesces(t *testing.T) {
	h := newHeap(t, 256)
	l := types.MustLayout(32, 8)

	var addrs []types.Addr
	for range 8 {
		a, err := h.AllocateFirstFit(l)
		require.NoError(t, err)
		addrs = append(addrs, a)
	}
	require.Empty(t, h.Holes())

	// Free in an order that exercises prev-only, next-only and both merges.
	for _, i := range []int{1, 3, 2, 0, 6, 7, 5, 4} {
		h.Deallocate(addrs[i], l)
		requireConsistent(t, h)
	}
	require.Equal(t, []region.Span{{Start: testBase, Size: 256}}, h.Holes())

	whole, err := h.AllocateFirstFit(types.MustLayout(256, 8))
	require.NoError(t, err)
	require.Equal(t, testBase, whole)
}

func TestDeallocateContractViolationsPanic(t *testing.T) {
	h := newHeap(t, 256)
	l := types.MustLayout(32, 8)
	a, err := h.AllocateFirstFit(l)
	require.NoError(t, err)
	h.Deallocate(a, l)

	require.Panics(t, func() { h.Deallocate(a, l) }, "double free")
	require.Panics(t, func() { h.Deallocate(testBase+1024, l) }, "foreign address")
	require.Panics(t, func() { h.Deallocate(testBase-8, l) }, "below heap")
}

func TestRandomInterleavingKeepsBlocksDisjoint(t *testing.T) {
	h := newHeap(t, 1<<16)
	rng := rand.New(rand.NewPCG(1, 2))

	type live struct {
		addr types.Addr
		l    types.Layout
	}
	var blocks []live

	for step := range 5000 {
		if len(blocks) > 0 && rng.IntN(3) == 0 {
			i := rng.IntN(len(blocks))
			h.Deallocate(blocks[i].addr, blocks[i].l)
			blocks = append(blocks[:i], blocks[i+1:]...)
		} else {
			l := types.MustLayout(uintptr(1+rng.IntN(600)), uintptr(1)<<rng.IntN(8))
			a, err := h.AllocateFirstFit(l)
			if err != nil {
				require.ErrorIs(t, err, ErrNoSpace)
				continue
			}
			require.Zero(t, uintptr(a)%max(l.Align, 8), "step %d misaligned", step)
			blocks = append(blocks, live{a, l})
		}
		if step%250 == 0 {
			requireConsistent(t, h)
		}
	}

	var used uintptr
	for i, b := range blocks {
		span := region.Span{Start: b.addr, Size: BlockSize(b.l)}
		used += span.Size
		require.True(t, h.Span().ContainsRange(span.Start, span.Size))
		for _, hole := range h.Holes() {
			require.False(t, span.Overlaps(hole), "live block %d overlaps a hole", i)
		}
		for j := i + 1; j < len(blocks); j++ {
			other := region.Span{Start: blocks[j].addr, Size: BlockSize(blocks[j].l)}
			require.False(t, span.Overlaps(other), "blocks %d and %d overlap", i, j)
		}
	}
	require.Equal(t, used, h.Used())

	for _, b := range blocks {
		h.Deallocate(b.addr, b.l)
	}
	require.Equal(t, []region.Span{h.Span()}, h.Holes())
}
