// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package mat

import "fmt"

// RowRange is the half-open interval [Start, End) of row indices.
type RowRange struct {
	Start, End int
}

// Len returns the number of rows in the range.
func (rr RowRange) Len() int { return rr.End - rr.Start }

// Empty reports whether the range has no rows.
func (rr RowRange) Empty() bool { return rr.End <= rr.Start }

func (rr RowRange) String() string {
	return fmt.Sprintf("[%d,%d)", rr.Start, rr.End)
}

// Partition splits rows [0, n) into w contiguous, disjoint ranges.
//
// The block size is ceil(n/w) and range i is [i*block, (i+1)*block) clamped to n.
// When w does not divide n the last ranges are shorter, and ranges that start at
// or beyond n come back as the empty range [n, n). Callers treat those as no-ops.
//
// Executors rely on the ranges being disjoint to write results without locks.
func Partition(n, w int) ([]RowRange, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadSize, n)
	}
	if w < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadWorkers, w)
	}

	block := (n + w - 1) / w
	ranges := make([]RowRange, w)
	for i := range ranges {
		ranges[i] = RowRange{
			Start: min(i*block, n),
			End:   min((i+1)*block, n),
		}
	}
	return ranges, nil
}
