// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package tuplevariation

import (
	"encoding/binary"
	"fmt"
	"log"
)

const (
	pointsAreWords    = 0x80
	pointRunCountMask = 0x7F
	maxPointRunLength = 128
)

// PointSet is a sorted set of glyph point (or CVT entry) indices. As the
// sharedPoints argument of Compile and Decompile, a non-nil *PointSet is
// the outer table's shared point set and nil means the variation carries
// private point numbers; a PointSet with All set means "every point in
// the glyph".
type PointSet struct {
	All    bool
	Points []uint16 // sorted ascending; unused when All is set
}

// AllPoints builds the shortcut point set covering every point of a
// glyph with n points.
func AllPoints(n int) *PointSet { return &PointSet{All: true, Points: nil} }

// NewPointSet builds a point set from an arbitrary (not necessarily
// sorted) slice of point indices.
func NewPointSet(points []uint16) *PointSet {
	sorted := append([]uint16(nil), points...)
	insertionSortUint16(sorted)
	return &PointSet{Points: sorted}
}

func insertionSortUint16(s []uint16) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}

// packPoints encodes points (already de-duplicated and within [0, n))
// as a count prefix followed by a concatenation of byte/word delta runs.
// A set that spans all n points of the glyph is encoded as the single
// all-points shortcut byte instead.
func packPoints(points []uint16, n int) []byte {
	if len(points) == n {
		return []byte{0}
	}

	var out []byte
	numPoints := len(points)
	if numPoints < 0x80 {
		out = append(out, byte(numPoints))
	} else {
		out = append(out, byte(numPoints>>8)|0x80, byte(numPoints&0xff))
	}

	pos := 0
	var last uint16
	for pos < numPoints {
		runStart := pos
		var useWords bool
		runLength := 0
		for pos < numPoints && runLength < maxPointRunLength {
			delta := int(points[pos]) - int(last)
			if runLength == 0 {
				useWords = delta > 0xff
			} else if !useWords && delta > 0xff {
				// This run cannot represent delta in byte form; close it
				// here and let the next run pick up, possibly as words.
				// A word run, by contrast, never switches back to bytes
				// mid-stream: its encoding is fixed by its first delta.
				break
			}
			last = points[pos]
			pos++
			runLength++
		}

		if useWords {
			out = append(out, byte(runLength-1)|pointsAreWords)
		} else {
			out = append(out, byte(runLength-1))
		}
		prev := uint16(0)
		if runStart > 0 {
			prev = points[runStart-1]
		}
		for i := runStart; i < pos; i++ {
			delta := points[i] - prev
			if useWords {
				out = binary.BigEndian.AppendUint16(out, delta)
			} else {
				out = append(out, byte(delta))
			}
			prev = points[i]
		}
	}
	return out
}

// unpackPoints decodes a point-number set from the front of data,
// returning the decoded (sorted, absolute) points and the number of
// bytes consumed. n is the glyph's point count, used both to resolve
// the all-points shortcut and to validate decoded values.
func unpackPoints(data []byte, n int, tableTag string) ([]uint16, int, error) {
	if len(data) < 1 {
		return nil, 0, fmt.Errorf("tuplevariation: point count: %w", ErrTruncated)
	}
	pos := 0
	count := uint16(data[0])
	pos++
	if count&pointsAreWords != 0 {
		if len(data) < pos+1 {
			return nil, 0, fmt.Errorf("tuplevariation: point count: %w", ErrTruncated)
		}
		count = (count &^ pointsAreWords) << 8
		count |= uint16(data[pos])
		pos++
	} else if data[0] == 0 {
		// the single 0x00 byte: all points of the glyph
		return allPointsRange(n), pos, nil
	}
	if count == 0 {
		return allPointsRange(n), pos, nil
	}

	points := make([]uint16, 0, count)
	var last uint16
	for len(points) < int(count) {
		if pos >= len(data) {
			return nil, 0, fmt.Errorf("tuplevariation: point run header: %w", ErrTruncated)
		}
		header := data[pos]
		pos++
		runLength := int(header&pointRunCountMask) + 1
		isWords := header&pointsAreWords != 0
		width := 1
		if isWords {
			width = 2
		}
		if pos+width*runLength > len(data) {
			return nil, 0, fmt.Errorf("tuplevariation: point run payload: %w", ErrTruncated)
		}
		for i := 0; i < runLength; i++ {
			var delta uint16
			if isWords {
				delta = binary.BigEndian.Uint16(data[pos:])
				pos += 2
			} else {
				delta = uint16(data[pos])
				pos++
			}
			last += delta
			points = append(points, last)
		}
	}

	var bad []uint16
	for _, p := range points {
		if int(p) >= n {
			bad = append(bad, p)
		}
	}
	if len(bad) > 0 {
		log.Printf("tuplevariation: point(s) %v out of range [0,%d) in %q table", bad, n, tableTag)
	}

	return points, pos, nil
}

func allPointsRange(n int) []uint16 {
	out := make([]uint16, n)
	for i := range out {
		out[i] = uint16(i)
	}
	return out
}
