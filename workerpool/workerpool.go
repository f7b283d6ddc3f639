// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool fans a set of row ranges out to goroutines and waits for
// all of them. Unlike a persistent pool, nothing survives the call: every
// goroutine is started and joined inside ForRanges, so a caller that times a
// single ForRanges call measures the complete parallel operation.
//
// Usage:
//
//	ranges, _ := mat.Partition(n, workers)
//	err := workerpool.ForRanges(ranges, func(worker int, rr mat.RowRange) {
//	    mat.MulRange(a, b, rr, c.Rows(rr))
//	})
package workerpool

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/ajroetker/go-matbench/mat"
)

// PanicError reports a worker that panicked. The remaining workers still
// run to completion before ForRanges returns it.
type PanicError struct {
	Worker int
	Range  mat.RowRange
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("workerpool: worker %d (rows %v) panicked: %v", e.Worker, e.Range, e.Value)
}

// ForRanges runs fn(i, ranges[i]) for every non-empty range, each on its own
// goroutine, and blocks until all of them have returned. Empty ranges are
// skipped: the worker that owns one has nothing to do.
//
// fn must confine its writes to data owned by its range; ForRanges does no
// locking of its own. The WaitGroup join is the only synchronization point, so
// everything written by the workers is visible to the caller once ForRanges
// returns.
//
// A panic in fn is recovered on the worker's goroutine. If any worker
// panicked, ForRanges returns the *PanicError of the lowest-indexed one.
func ForRanges(ranges []mat.RowRange, fn func(worker int, rr mat.RowRange)) error {
	panics := make([]*PanicError, len(ranges))

	var wg sync.WaitGroup
	for i, rr := range ranges {
		if rr.Empty() {
			// No work for this worker
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if v := recover(); v != nil {
					panics[i] = &PanicError{Worker: i, Range: rr, Value: v, Stack: debug.Stack()}
				}
			}()
			fn(i, rr)
		}()
	}
	wg.Wait()

	for _, p := range panics {
		if p != nil {
			return p
		}
	}
	return nil
}
