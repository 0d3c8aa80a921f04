package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/segalloc/alloc"
	"github.com/joshuapare/segalloc/pkg/types"
)

func TestClassifyCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "fixed class by alignment",
			args:        []string{"10", "64"},
			wantContain: []string{"route:    fixed", "block 64 bytes"},
		},
		{
			name:        "variable class",
			args:        []string{"3000"},
			wantContain: []string{"route:    variable", "block 4096 bytes"},
		},
		{
			name:        "unclassifiable",
			args:        []string{"70000"},
			wantContain: []string{"route:    fallback"},
		},
		{
			name:    "bad alignment",
			args:    []string{"16", "12"},
			wantErr: true,
		},
		{
			name:    "bad size",
			args:    []string{"lots"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			out, err := captureOutput(t, func() error { return runClassify(tt.args) })
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				require.Contains(t, out, want)
			}
		})
	}
}

func TestClassifyJSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true

	out, err := captureOutput(t, func() error { return runClassify([]string{"24"}) })
	require.NoError(t, err)

	var res ClassifyResult
	decodeJSON(t, out, &res)
	require.Equal(t, "fixed", res.Route)
	require.NotNil(t, res.Bin)
	require.Equal(t, 2, *res.Bin)
	require.Equal(t, uintptr(24), res.BlockSize)
	require.Equal(t, uintptr(32), res.BlockAlign)
}

func TestLayoutCommand(t *testing.T) {
	resetFlags(t)
	regionSize = 1 << 20

	out, err := captureOutput(t, runLayout)
	require.NoError(t, err)
	for _, want := range []string{"fallback", "var-1024", "var-4096", "var-16384", "var-65536", "786,432", "65,536"} {
		require.Contains(t, out, want)
	}
}

func TestLayoutJSON(t *testing.T) {
	resetFlags(t)
	regionSize = 1 << 20
	jsonOut = true

	out, err := captureOutput(t, runLayout)
	require.NoError(t, err)

	var rep alloc.Report
	decodeJSON(t, out, &rep)
	require.Len(t, rep.Heaps, 5)
	require.Equal(t, uintptr(3<<18), rep.Heaps[0].Size)
	for _, h := range rep.Heaps[1:] {
		require.Equal(t, uintptr(1<<16), h.Size)
		require.Zero(t, h.Used)
	}
}

func TestLayoutRejectsBadDivisor(t *testing.T) {
	resetFlags(t)
	divisor = 2
	_, err := captureOutput(t, runLayout)
	require.Error(t, err)
	require.ErrorIs(t, err, types.ErrBadOptions)
}

func TestStressCommand(t *testing.T) {
	resetFlags(t)
	regionSize = 8 << 20
	stressOps = 5000
	stressSeed = 42
	jsonOut = true

	out, err := captureOutput(t, runStress)
	require.NoError(t, err)

	var res StressResult
	decodeJSON(t, out, &res)
	require.Equal(t, 5000, res.Ops)
	require.Equal(t, res.Ops, res.Allocs+res.Frees+res.Failures)
	require.Equal(t, res.Allocs-res.Frees, res.Live)
	require.Len(t, res.Report.Heaps, 5)
}

func TestCheckDisjoint(t *testing.T) {
	a := liveBlock{addr: 0x1000, l: layout(64)}
	b := liveBlock{addr: 0x1040, l: layout(16)}
	require.NoError(t, checkDisjoint([]liveBlock{b, a}))

	c := liveBlock{addr: 0x1038, l: layout(16)}
	require.Error(t, checkDisjoint([]liveBlock{a, c}))
}

func TestPatternRoundTrip(t *testing.T) {
	buf := make([]byte, 300)
	fillPattern(buf, 7)
	require.NoError(t, checkPattern(buf, 7))
	buf[299] ^= 0xff
	require.Error(t, checkPattern(buf, 7))
}

func layout(size uintptr) types.Layout { return types.Layout{Size: size, Align: 8} }

func TestExpectedPartition(t *testing.T) {
	require.Equal(t, alloc.FallbackPartition, expectedPartition(types.MustLayout(24, 8)))
	require.Equal(t, alloc.FallbackPartition, expectedPartition(types.MustLayout(70000, 8)))
	require.Equal(t, "var-4096", expectedPartition(types.MustLayout(3000, 8)))
	require.Equal(t, "var-65536", expectedPartition(types.MustLayout(20000, 8)))
}
