// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package tuplevariation

import (
	"encoding/binary"
	"math"
)

// F2Dot14 is a signed fixed-point number with 14 fractional bits, used
// to store normalized designspace coordinates on the wire.
type F2Dot14 int16

// FloatToF2Dot14 converts a real number to its F2DOT14 representation,
// rounding to the nearest 1/16384; values beyond the representable range
// [-2, 2) are clamped to it.
func FloatToF2Dot14(v float32) F2Dot14 {
	scaled := math.Round(float64(v) * 16384)
	if scaled > 32767 {
		scaled = 32767
	} else if scaled < -32768 {
		scaled = -32768
	}
	return F2Dot14(scaled)
}

// Float32 converts back to a real number.
func (f F2Dot14) Float32() float32 {
	return float32(f) / 16384
}

// AxisRegion is the (min, peak, max) triple describing how a single axis
// participates in a TupleVariation's region of designspace.
type AxisRegion struct {
	Min, Peak, Max float32
}

// defaultRegion returns the intermediate region implied by Peak alone.
func (r AxisRegion) defaultRegion() AxisRegion {
	return AxisRegion{Min: minF32(r.Peak, 0), Peak: r.Peak, Max: maxF32(r.Peak, 0)}
}

// hasIntermediate reports whether r needs an explicit intermediate
// region, i.e. its (min, max) differ from what Peak alone would imply.
func (r AxisRegion) hasIntermediate() bool {
	d := r.defaultRegion()
	return r.Min != d.Min || r.Max != d.Max
}

// isZero reports whether the axis has no effect at all, the implicit
// state of an axis not mentioned in a TupleVariation's axis map.
func (r AxisRegion) isZero() bool {
	return r.Peak == 0 && r.Min == 0 && r.Max == 0
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// encodeCoordTuple packs one F2DOT14 value per axis, in axisTags order,
// defaulting to 0 for any axis not present in axes.
func encodeCoordTuple(axisTags []Tag, axes map[Tag]AxisRegion, pick func(AxisRegion) float32) []byte {
	out := make([]byte, 2*len(axisTags))
	for i, tag := range axisTags {
		v := pick(axes[tag]) // zero value if absent, matching the (0,0,0) default
		binary.BigEndian.PutUint16(out[2*i:], uint16(FloatToF2Dot14(v)))
	}
	return out
}

// decodeCoordTuple reads one F2DOT14 value per axis from data, which must
// hold at least 2*len(axisTags) bytes.
func decodeCoordTuple(data []byte, axisTags []Tag) ([]float32, error) {
	if len(data) < 2*len(axisTags) {
		return nil, ErrTruncated
	}
	out := make([]float32, len(axisTags))
	for i := range axisTags {
		out[i] = F2Dot14(binary.BigEndian.Uint16(data[2*i:])).Float32()
	}
	return out, nil
}
