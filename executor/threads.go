// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package executor

import (
	"errors"
	"fmt"
	"time"

	"github.com/ajroetker/go-matbench/mat"
	"github.com/ajroetker/go-matbench/workerpool"
)

// Threads multiplies with one goroutine per row range over shared memory.
//
// Each goroutine gets c.Rows(rr), a slice whose capacity ends at its last row,
// and reads a and b directly. Ranges from mat.Partition are disjoint, which is
// what makes the unsynchronized writes safe; the join in workerpool.ForRanges
// publishes them to the caller.
type Threads struct {
	// kernel replaces mat.MulRange in tests.
	kernel func(a, b *mat.Matrix, rr mat.RowRange, out []int)
}

var _ Executor = (*Threads)(nil)

// Name implements Executor.
func (t *Threads) Name() string { return NameThreads }

// Multiply implements Executor. A panicking worker fails the whole call with
// ErrWorkerPanic once every other worker has finished; its rows are not
// recovered.
func (t *Threads) Multiply(a, b, c *mat.Matrix, workers int) (Run, error) {
	ranges, err := plan(a, b, c, workers)
	if err != nil {
		return Run{}, err
	}
	kernel := t.kernel
	if kernel == nil {
		kernel = mat.MulRange
	}

	start := time.Now()
	err = workerpool.ForRanges(ranges, func(_ int, rr mat.RowRange) {
		kernel(a, b, rr, c.Rows(rr))
	})
	elapsed := time.Since(start)

	statuses := statusesFor(ranges)
	if err != nil {
		var pe *workerpool.PanicError
		if errors.As(err, &pe) {
			statuses[pe.Worker].ExitErr = err
		}
		return Run{Workers: statuses}, fmt.Errorf("%w: %w", ErrWorkerPanic, err)
	}
	return Run{Elapsed: elapsed, Workers: statuses}, nil
}
