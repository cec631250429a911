// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package tuplevariation

import (
	"encoding/binary"
	"fmt"
)

// Tuple header flags, packed into the low word of a TupleVariationHeader.
const (
	embeddedPeakTuple    = 0x8000
	intermediateRegion   = 0x4000
	privatePointNumbers  = 0x2000
	sharedTupleIndexMask = 0x0FFF
)

// TupleHeader is the decoded form of the 4-byte-plus-coordinates header
// that precedes every TupleVariation's auxiliary data.
type TupleHeader struct {
	Flags             uint16
	VariationDataSize uint16

	// PeakTuple is nil when the low 12 bits of Flags index into the
	// outer shared-tuple table instead.
	PeakTuple []float32

	// IntermediateMin/IntermediateMax are nil when INTERMEDIATE_REGION
	// is clear.
	IntermediateMin, IntermediateMax []float32
}

// HasEmbeddedPeak reports whether the header carries an inline peak tuple.
func (h TupleHeader) HasEmbeddedPeak() bool { return h.Flags&embeddedPeakTuple != 0 }

// HasIntermediateRegion reports whether the header carries inline min/max tuples.
func (h TupleHeader) HasIntermediateRegion() bool { return h.Flags&intermediateRegion != 0 }

// HasPrivatePointNumbers reports whether auxData begins with a private
// point-number encoding rather than adopting the outer shared point set.
func (h TupleHeader) HasPrivatePointNumbers() bool { return h.Flags&privatePointNumbers != 0 }

// SharedTupleIndex returns the index into the outer shared-tuple table
// to use when HasEmbeddedPeak is false.
func (h TupleHeader) SharedTupleIndex() uint16 { return h.Flags & sharedTupleIndexMask }

// TupleSize returns the number of header bytes (flags word included)
// that a TupleHeader with these flags occupies: 4 fixed bytes, plus an
// embedded peak tuple and/or intermediate min/max tuples depending on
// which flag bits are set.
func TupleSize(flags uint16, axisCount int) int {
	size := 4
	if flags&embeddedPeakTuple != 0 {
		size += axisCount * 2
	}
	if flags&intermediateRegion != 0 {
		size += axisCount * 4
	}
	return size
}

// ParseTupleHeader decodes one TupleVariationHeader from the front of
// data, returning the remaining, unconsumed bytes (the start of the next
// header in a sequence of several).
func ParseTupleHeader(data []byte, axisTags []Tag) (TupleHeader, []byte, error) {
	if len(data) < 4 {
		return TupleHeader{}, nil, fmt.Errorf("tuplevariation: tuple header: %w", ErrTruncated)
	}
	h := TupleHeader{
		VariationDataSize: binary.BigEndian.Uint16(data),
		Flags:             binary.BigEndian.Uint16(data[2:]),
	}
	pos := 4

	if h.HasEmbeddedPeak() {
		peak, err := decodeCoordTuple(data[pos:], axisTags)
		if err != nil {
			return TupleHeader{}, nil, fmt.Errorf("tuplevariation: peak tuple: %w", err)
		}
		h.PeakTuple = peak
		pos += 2 * len(axisTags)
	}

	if h.HasIntermediateRegion() {
		min, err := decodeCoordTuple(data[pos:], axisTags)
		if err != nil {
			return TupleHeader{}, nil, fmt.Errorf("tuplevariation: intermediate min tuple: %w", err)
		}
		pos += 2 * len(axisTags)
		max, err := decodeCoordTuple(data[pos:], axisTags)
		if err != nil {
			return TupleHeader{}, nil, fmt.Errorf("tuplevariation: intermediate max tuple: %w", err)
		}
		pos += 2 * len(axisTags)
		h.IntermediateMin, h.IntermediateMax = min, max
	}

	return h, data[pos:], nil
}
