package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/segalloc/pkg/types"
)

// testRegionSize divides evenly by 16: 768 KiB fallback, four 64 KiB slices.
const testRegionSize = 1 << 20

// newTestAllocator returns an initialized allocator over a fresh Go slice.
func newTestAllocator(t testing.TB, size int) *Allocator {
	t.Helper()
	a := New(nil)
	require.NoError(t, a.Init(make([]byte, size)))
	return a
}

// mustAlloc allocates l and fails the test on error.
func mustAlloc(t testing.TB, a *Allocator, l types.Layout) types.Addr {
	t.Helper()
	addr, err := a.Allocate(l)
	require.NoError(t, err, "allocate %s", l)
	require.NotEqual(t, types.Null, addr)
	return addr
}

// fill writes a recognizable pattern into a live block.
func fill(t testing.TB, a *Allocator, addr types.Addr, l types.Layout, seed byte) {
	t.Helper()
	b, err := a.Bytes(addr, l)
	require.NoError(t, err)
	for i := range b {
		b[i] = seed + byte(i)
	}
}

// requirePattern checks the pattern written by fill.
func requirePattern(t testing.TB, a *Allocator, addr types.Addr, l types.Layout, seed byte) {
	t.Helper()
	b, err := a.Bytes(addr, l)
	require.NoError(t, err)
	for i := range b {
		if b[i] != seed+byte(i) {
			t.Fatalf("block %s %s corrupted at byte %d: got 0x%x want 0x%x", addr, l, i, b[i], seed+byte(i))
		}
	}
}
