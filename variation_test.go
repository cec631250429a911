// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package tuplevariation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasImpact(t *testing.T) {
	tv := NewGvarTupleVariation(nil, 4)
	require.False(t, tv.HasImpact())

	tv.SetPointDelta(2, 0, 0) // an explicit (0,0) delta still counts
	require.True(t, tv.HasImpact())
}

func TestHasImpactCvar(t *testing.T) {
	tv := NewCvarTupleVariation(nil, 4)
	require.False(t, tv.HasImpact())
	tv.SetCVTDelta(0, 0)
	require.True(t, tv.HasImpact())
}

func TestModeMismatchPanics(t *testing.T) {
	gvar := NewGvarTupleVariation(nil, 2)
	require.Panics(t, func() { gvar.SetCVTDelta(0, 1) })

	cvar := NewCvarTupleVariation(nil, 2)
	require.Panics(t, func() { cvar.SetPointDelta(0, 1, 1) })
}

func gvarAxisTags() []Tag {
	return []Tag{MustParseTag("wght"), MustParseTag("wdth")}
}

func TestCompileDecompileRoundTripGvarPrivatePoints(t *testing.T) {
	axisTags := gvarAxisTags()
	wght := axisTags[0]

	axes := map[Tag]AxisRegion{
		wght: {Min: -0.5, Peak: 1, Max: 1}, // needs an intermediate region
	}
	const n = 10
	tv := NewGvarTupleVariation(axes, n)
	tv.SetPointDelta(2, 5, -5)
	tv.SetPointDelta(5, 300, 0) // forces a word-encoded delta run
	tv.SetPointDelta(7, 0, 0)

	header, auxData, err := tv.Compile(axisTags, nil, nil)
	require.NoError(t, err)

	h, rest, err := ParseTupleHeader(header, axisTags)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, int(h.VariationDataSize), len(auxData))
	require.True(t, h.HasEmbeddedPeak())
	require.True(t, h.HasIntermediateRegion())
	require.True(t, h.HasPrivatePointNumbers())

	got, err := h.Decompile(auxData, GvarMode, axisTags, n, nil, nil, "gvar")
	require.NoError(t, err)

	require.Len(t, got.Axes, 1)
	require.InDelta(t, -0.5, got.Axes[wght].Min, 1e-4)
	require.InDelta(t, 1.0, got.Axes[wght].Peak, 1e-4)
	require.InDelta(t, 1.0, got.Axes[wght].Max, 1e-4)

	for i := 0; i < n; i++ {
		d, ok := got.PointDelta(i)
		switch i {
		case 2:
			require.True(t, ok)
			require.Equal(t, PointDelta{X: 5, Y: -5}, d)
		case 5:
			require.True(t, ok)
			require.Equal(t, PointDelta{X: 300, Y: 0}, d)
		case 7:
			require.True(t, ok)
			require.Equal(t, PointDelta{X: 0, Y: 0}, d)
		default:
			require.False(t, ok)
		}
	}
}

func TestCompileDecompileRoundTripCvarSharedPoints(t *testing.T) {
	axisTags := []Tag{MustParseTag("ital")}
	axes := map[Tag]AxisRegion{axisTags[0]: {Min: 0, Peak: 1, Max: 1}} // peak-only, no intermediate

	const n = 8
	tv := NewCvarTupleVariation(axes, n)
	tv.SetCVTDelta(1, 10)
	tv.SetCVTDelta(3, -10)
	tv.SetCVTDelta(4, 0)

	shared := NewPointSet([]uint16{1, 3, 4})

	header, auxData, err := tv.Compile(axisTags, nil, shared)
	require.NoError(t, err)

	h, _, err := ParseTupleHeader(header, axisTags)
	require.NoError(t, err)
	require.False(t, h.HasIntermediateRegion())
	require.False(t, h.HasPrivatePointNumbers())

	got, err := h.Decompile(auxData, CvarMode, axisTags, n, nil, shared, "cvar")
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		v, ok := got.CVTDelta(i)
		switch i {
		case 1:
			require.True(t, ok)
			require.Equal(t, int16(10), v)
		case 3:
			require.True(t, ok)
			require.Equal(t, int16(-10), v)
		case 4:
			require.True(t, ok)
			require.Equal(t, int16(0), v)
		default:
			require.False(t, ok)
		}
	}
}

func TestCompileDecompileAllPointsSharedSet(t *testing.T) {
	axisTags := []Tag{MustParseTag("wght")}
	axes := map[Tag]AxisRegion{axisTags[0]: {Peak: 1}}

	const n = 4
	tv := NewGvarTupleVariation(axes, n)
	for i := 0; i < n; i++ {
		tv.SetPointDelta(i, int16(i), int16(-i))
	}

	all := AllPoints(n)
	header, auxData, err := tv.Compile(axisTags, nil, all)
	require.NoError(t, err)

	h, _, err := ParseTupleHeader(header, axisTags)
	require.NoError(t, err)
	require.False(t, h.HasPrivatePointNumbers())

	got, err := h.Decompile(auxData, GvarMode, axisTags, n, nil, all, "gvar")
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		d, ok := got.PointDelta(i)
		require.True(t, ok)
		require.Equal(t, PointDelta{X: int16(i), Y: int16(-i)}, d)
	}
}

func TestCompileUsesSharedCoordIndex(t *testing.T) {
	axisTags := []Tag{MustParseTag("wght")}
	axes := map[Tag]AxisRegion{axisTags[0]: {Peak: 1}}
	tv := NewGvarTupleVariation(axes, 4)
	tv.SetPointDelta(0, 1, 1)

	peakBytes := encodeCoordTuple(axisTags, axes, func(r AxisRegion) float32 { return r.Peak })
	shared := map[string]uint16{string(peakBytes): 3}

	header, auxData, err := tv.Compile(axisTags, shared, nil)
	require.NoError(t, err)

	h, rest, err := ParseTupleHeader(header, axisTags)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.False(t, h.HasEmbeddedPeak())
	require.Equal(t, uint16(3), h.SharedTupleIndex())

	got, err := h.Decompile(auxData, GvarMode, axisTags, 4, []float32{1}, nil, "gvar")
	require.NoError(t, err)
	d, ok := got.PointDelta(0)
	require.True(t, ok)
	require.Equal(t, PointDelta{X: 1, Y: 1}, d)
}

func TestCompileInvalidAxisTag(t *testing.T) {
	axisTags := []Tag{MustParseTag("wght")}
	axes := map[Tag]AxisRegion{MustParseTag("wdth"): {Peak: 1}}
	tv := NewGvarTupleVariation(axes, 4)

	_, _, err := tv.Compile(axisTags, nil, nil)
	require.ErrorIs(t, err, ErrInvalidAxisTag)
}

func TestDecompileMissingSharedPeak(t *testing.T) {
	axisTags := []Tag{MustParseTag("wght")}
	h := TupleHeader{Flags: 5} // shared index 5, no embedded peak
	_, err := h.Decompile(nil, GvarMode, axisTags, 4, nil, nil, "gvar")
	require.Error(t, err)
}
