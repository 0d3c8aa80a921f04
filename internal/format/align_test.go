package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignUp(t *testing.T) {
	tests := []struct {
		n, align, want uintptr
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{9, 64, 64},
		{65, 64, 128},
		{4097, 4096, 8192},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, AlignUp(tt.n, tt.align), "AlignUp(%d, %d)", tt.n, tt.align)
	}
}

func TestAlignDown(t *testing.T) {
	require.Equal(t, uintptr(0), AlignDown(7, 8))
	require.Equal(t, uintptr(64), AlignDown(127, 64))
	require.Equal(t, uintptr(128), AlignDown(128, 64))
}

func TestAlign8(t *testing.T) {
	require.Equal(t, uintptr(8), Align8(1))
	require.Equal(t, uintptr(16), Align8(9))
	require.Equal(t, uintptr(16), Align8(16))
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []uintptr{1, 2, 8, 64, 1 << 20} {
		require.True(t, IsPowerOfTwo(n), "%d", n)
	}
	for _, n := range []uintptr{0, 3, 12, 504, 1000} {
		require.False(t, IsPowerOfTwo(n), "%d", n)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	require.Equal(t, uintptr(8), NextPowerOfTwo(1, 8))
	require.Equal(t, uintptr(8), NextPowerOfTwo(8, 8))
	require.Equal(t, uintptr(32), NextPowerOfTwo(24, 8))
	require.Equal(t, uintptr(512), NextPowerOfTwo(504, 8))
	require.Equal(t, uintptr(65536), NextPowerOfTwo(65536, 8))
}

func TestWordRoundTrip(t *testing.T) {
	buf := make([]byte, 24)
	PutWord(buf, 8, 0xdeadbeefcafef00d)
	require.Equal(t, uint64(0xdeadbeefcafef00d), ReadWord(buf, 8))
	require.Equal(t, uint64(0), ReadWord(buf, 0))
	require.Equal(t, uint64(0), ReadWord(buf, 16))
}
