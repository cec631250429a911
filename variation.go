// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

// Package tuplevariation implements the encoder and decoder for a single
// OpenType TupleVariation record, the unit of variation data shared by
// the 'gvar' and 'cvar' tables. It packs/unpacks the tuple header, the
// delta-encoded point-number set, and the run-length encoded delta
// stream(s); it does not read or write the enclosing tables themselves.
package tuplevariation

import (
	"encoding/binary"
	"fmt"
)

// Mode selects whether a TupleVariation carries paired (x, y) point
// deltas ('gvar') or scalar CVT deltas ('cvar').
type Mode uint8

const (
	GvarMode Mode = iota
	CvarMode
)

// PointDelta is a single glyph point's (x, y) perturbation, in font units.
type PointDelta struct {
	X, Y int16
}

// TupleVariation is a region of designspace (Axes) paired with the
// deltas it applies, for one glyph ('gvar') or the whole CVT ('cvar').
//
// A freshly constructed value has every coordinate unset. Use
// SetPointDelta (gvar) or SetCVTDelta (cvar) to populate it; calling the
// setter for the wrong mode panics, since that is a programming error,
// not a malformed-input condition.
type TupleVariation struct {
	mode Mode
	Axes map[Tag]AxisRegion

	pointDeltas []*PointDelta // len == n, gvar mode only
	cvtDeltas   []*int16      // len == n, cvar mode only
}

// NewGvarTupleVariation builds an empty gvar-mode TupleVariation for a
// glyph with n points (phantom points included, as counted by the
// caller's outer 'gvar' table reader).
func NewGvarTupleVariation(axes map[Tag]AxisRegion, n int) *TupleVariation {
	return &TupleVariation{mode: GvarMode, Axes: cloneAxes(axes), pointDeltas: make([]*PointDelta, n)}
}

// NewCvarTupleVariation builds an empty cvar-mode TupleVariation for a
// CVT with n entries.
func NewCvarTupleVariation(axes map[Tag]AxisRegion, n int) *TupleVariation {
	return &TupleVariation{mode: CvarMode, Axes: cloneAxes(axes), cvtDeltas: make([]*int16, n)}
}

func cloneAxes(axes map[Tag]AxisRegion) map[Tag]AxisRegion {
	out := make(map[Tag]AxisRegion, len(axes))
	for k, v := range axes {
		out[k] = v
	}
	return out
}

// Mode reports whether t is a gvar- or cvar-mode variation.
func (t *TupleVariation) Mode() Mode { return t.mode }

// Len returns the length of the delta vector (the glyph's point count,
// or the CVT's entry count).
func (t *TupleVariation) Len() int {
	if t.mode == GvarMode {
		return len(t.pointDeltas)
	}
	return len(t.cvtDeltas)
}

// SetPointDelta sets the (x, y) delta at glyph point i. It panics if t
// is not gvar mode.
func (t *TupleVariation) SetPointDelta(i int, x, y int16) {
	if t.mode != GvarMode {
		panic("tuplevariation: SetPointDelta on a cvar-mode TupleVariation")
	}
	t.pointDeltas[i] = &PointDelta{X: x, Y: y}
}

// PointDelta returns the delta at glyph point i, and whether it is set.
// It panics if t is not gvar mode.
func (t *TupleVariation) PointDelta(i int) (PointDelta, bool) {
	if t.mode != GvarMode {
		panic("tuplevariation: PointDelta on a cvar-mode TupleVariation")
	}
	d := t.pointDeltas[i]
	if d == nil {
		return PointDelta{}, false
	}
	return *d, true
}

// SetCVTDelta sets the delta at CVT entry i. It panics if t is not cvar mode.
func (t *TupleVariation) SetCVTDelta(i int, v int16) {
	if t.mode != CvarMode {
		panic("tuplevariation: SetCVTDelta on a gvar-mode TupleVariation")
	}
	t.cvtDeltas[i] = &v
}

// CVTDelta returns the delta at CVT entry i, and whether it is set. It
// panics if t is not cvar mode.
func (t *TupleVariation) CVTDelta(i int) (int16, bool) {
	if t.mode != CvarMode {
		panic("tuplevariation: CVTDelta on a gvar-mode TupleVariation")
	}
	v := t.cvtDeltas[i]
	if v == nil {
		return 0, false
	}
	return *v, true
}

// HasImpact reports whether this TupleVariation has any visible effect:
// at least one coordinate is set. A TupleVariation for which this
// returns false can be dropped from the font without any visible change.
func (t *TupleVariation) HasImpact() bool {
	if t.mode == GvarMode {
		for _, d := range t.pointDeltas {
			if d != nil {
				return true
			}
		}
		return false
	}
	for _, v := range t.cvtDeltas {
		if v != nil {
			return true
		}
	}
	return false
}

// usedPoints returns the sorted indices of every set coordinate.
func (t *TupleVariation) usedPoints() []uint16 {
	var pts []uint16
	if t.mode == GvarMode {
		for i, d := range t.pointDeltas {
			if d != nil {
				pts = append(pts, uint16(i))
			}
		}
	} else {
		for i, v := range t.cvtDeltas {
			if v != nil {
				pts = append(pts, uint16(i))
			}
		}
	}
	return pts
}

// compileDeltas packs the deltas at points (assumed sorted ascending)
// into the wire delta stream(s). Points without a set coordinate are
// silently skipped, matching the reference encoder: the shared/private
// point set and the delta stream are expected to agree in practice.
func (t *TupleVariation) compileDeltas(points []uint16) []byte {
	if t.mode == CvarMode {
		values := make([]int16, 0, len(points))
		for _, p := range points {
			if v := t.cvtDeltas[p]; v != nil {
				values = append(values, *v)
			}
		}
		return packDeltas(values)
	}

	xs := make([]int16, 0, len(points))
	ys := make([]int16, 0, len(points))
	for _, p := range points {
		if d := t.pointDeltas[p]; d != nil {
			xs = append(xs, d.X)
			ys = append(ys, d.Y)
		}
	}
	return append(packDeltas(xs), packDeltas(ys)...)
}

// Compile encodes t into its header and auxData byte strings.
//
// axisTags is the outer table's axis ordering. sharedCoordIndices maps a
// compiled peak-coordinate byte string to its index in the outer
// shared-tuple table (may be nil). sharedPoints, if non-nil, is the
// outer glyph's shared point set; when nil, t encodes a private point
// set built from its own set coordinates.
func (t *TupleVariation) Compile(axisTags []Tag, sharedCoordIndices map[string]uint16, sharedPoints *PointSet) (header, auxData []byte, err error) {
	for tag := range t.Axes {
		if indexOf(axisTags, tag) < 0 {
			return nil, nil, fmt.Errorf("tuplevariation: axis %q: %w", tag, ErrInvalidAxisTag)
		}
	}

	var flags uint16
	var headerExtra []byte

	peakBytes := encodeCoordTuple(axisTags, t.Axes, func(r AxisRegion) float32 { return r.Peak })
	if idx, ok := sharedCoordIndices[string(peakBytes)]; ok {
		flags = idx & sharedTupleIndexMask
	} else {
		flags = embeddedPeakTuple
		headerExtra = append(headerExtra, peakBytes...)
	}

	needsIntermediate := false
	for _, r := range t.Axes {
		if r.hasIntermediate() {
			needsIntermediate = true
			break
		}
	}
	if needsIntermediate {
		flags |= intermediateRegion
		headerExtra = append(headerExtra, encodeCoordTuple(axisTags, t.Axes, func(r AxisRegion) float32 { return r.Min })...)
		headerExtra = append(headerExtra, encodeCoordTuple(axisTags, t.Axes, func(r AxisRegion) float32 { return r.Max })...)
	}

	var points []uint16
	if sharedPoints != nil {
		if sharedPoints.All {
			points = allPointsRange(t.Len())
		} else {
			points = sharedPoints.Points
		}
	} else {
		flags |= privatePointNumbers
		points = t.usedPoints()
		auxData = append(auxData, packPoints(points, t.Len())...)
	}

	auxData = append(auxData, t.compileDeltas(points)...)

	header = make([]byte, 4, 4+len(headerExtra))
	binary.BigEndian.PutUint16(header, uint16(len(auxData)))
	binary.BigEndian.PutUint16(header[2:], flags)
	header = append(header, headerExtra...)

	return header, auxData, nil
}

// Decompile builds a TupleVariation from a parsed header and its
// matching auxData (exactly h.VariationDataSize bytes).
//
// mode selects gvar vs cvar semantics. axisTags is the outer axis
// ordering and n is the glyph point count ('gvar') or CVT length
// ('cvar'). sharedPeak supplies the resolved peak tuple when h has no
// embedded peak (looked up by the caller via h.SharedTupleIndex() in the
// outer shared-tuple table); it is ignored otherwise. sharedPoints
// supplies the outer glyph's shared point set, used when h has no
// private point numbers. tableTag names the enclosing table ("gvar" or
// "cvar") for diagnostics.
func (h TupleHeader) Decompile(auxData []byte, mode Mode, axisTags []Tag, n int, sharedPeak []float32, sharedPoints *PointSet, tableTag string) (*TupleVariation, error) {
	peak := h.PeakTuple
	if peak == nil {
		peak = sharedPeak
	}
	if peak == nil {
		return nil, fmt.Errorf("tuplevariation: no peak tuple available for shared index %d", h.SharedTupleIndex())
	}
	if len(peak) != len(axisTags) {
		return nil, fmt.Errorf("tuplevariation: peak tuple length %d does not match %d axes", len(peak), len(axisTags))
	}

	axes := make(map[Tag]AxisRegion, len(axisTags))
	for i, tag := range axisTags {
		r := AxisRegion{Peak: peak[i]}
		if h.IntermediateMin != nil {
			r.Min, r.Max = h.IntermediateMin[i], h.IntermediateMax[i]
		} else {
			d := r.defaultRegion()
			r.Min, r.Max = d.Min, d.Max
		}
		if !r.isZero() {
			axes[tag] = r
		}
	}

	var (
		points []uint16
		pos    int
		err    error
	)
	if h.HasPrivatePointNumbers() {
		points, pos, err = unpackPoints(auxData, n, tableTag)
		if err != nil {
			return nil, err
		}
	} else if sharedPoints != nil {
		if sharedPoints.All {
			points = allPointsRange(n)
		} else {
			points = sharedPoints.Points
		}
	} else {
		return nil, fmt.Errorf("tuplevariation: no private point numbers and no shared point set supplied")
	}

	deltaCount := len(points)
	if mode == GvarMode {
		deltaCount *= 2
	}
	deltas, _, err := unpackDeltas(auxData[pos:], deltaCount)
	if err != nil {
		return nil, err
	}

	var tv *TupleVariation
	if mode == GvarMode {
		tv = NewGvarTupleVariation(axes, n)
		xs, ys := deltas[:len(points)], deltas[len(points):]
		for i, p := range points {
			if int(p) >= n {
				continue
			}
			tv.pointDeltas[p] = &PointDelta{X: xs[i], Y: ys[i]}
		}
	} else {
		tv = NewCvarTupleVariation(axes, n)
		for i, p := range points {
			if int(p) >= n {
				continue
			}
			v := deltas[i]
			tv.cvtDeltas[p] = &v
		}
	}

	return tv, nil
}
