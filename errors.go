// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package tuplevariation

import "errors"

// Sentinel errors identifying the decode/compile failure kinds described
// by the format: wrap these with fmt.Errorf("...: %w", ...) for context
// and recover the kind with errors.Is.
var (
	// ErrInvalidAxisTag is returned by Compile when a TupleVariation
	// references an axis tag absent from the caller's axis ordering.
	ErrInvalidAxisTag = errors.New("tuplevariation: axis tag not found in axis ordering")

	// ErrTruncated is returned when a read would run past the end of
	// the supplied byte range.
	ErrTruncated = errors.New("tuplevariation: truncated data")

	// ErrBadRunHeader is returned on a decoded run header that cannot
	// be produced by a conforming encoder (hostile or corrupt input).
	ErrBadRunHeader = errors.New("tuplevariation: invalid run header")
)
