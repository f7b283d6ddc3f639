// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"

	"github.com/ajroetker/go-matbench/executor"
)

// Sample is the outcome of one trial. Elapsed is meaningful only when Err is nil.
type Sample struct {
	Trial   int
	Elapsed time.Duration
	Err     error
	Workers []executor.WorkerStatus
}

// OK reports whether the trial succeeded.
func (s Sample) OK() bool { return s.Err == nil }

// Report holds the ordered samples of one Harness.Run.
type Report struct {
	Executor string
	Size     int
	Workers  int
	Seed     uint64
	Samples  []Sample
}

// Succeeded returns the successful samples in trial order.
func (r *Report) Succeeded() []Sample {
	return lo.Filter(r.Samples, func(s Sample, _ int) bool { return s.OK() })
}

// Failed returns the failed samples in trial order.
func (r *Report) Failed() []Sample {
	return lo.Reject(r.Samples, func(s Sample, _ int) bool { return s.OK() })
}

// Mean returns the arithmetic mean of the successful trials. ok is false
// when there are none.
func (r *Report) Mean() (mean time.Duration, ok bool) {
	good := r.Succeeded()
	if len(good) == 0 {
		return 0, false
	}
	total := lo.SumBy(good, func(s Sample) time.Duration { return s.Elapsed })
	return total / time.Duration(len(good)), true
}

// WorkerExits counts workers that exited abnormally in successful trials.
func (r *Report) WorkerExits() int {
	return lo.SumBy(r.Succeeded(), func(s Sample) int {
		return lo.CountBy(s.Workers, func(ws executor.WorkerStatus) bool { return ws.ExitErr != nil })
	})
}

// CSVLine returns "CSV: <workers>,<size>,<mean ms>", or "" when no trial succeeded.
func (r *Report) CSVLine() string {
	mean, ok := r.Mean()
	if !ok {
		return ""
	}
	return fmt.Sprintf("CSV: %d,%d,%.2f", r.Workers, r.Size, Millis(mean))
}

// WriteSummary prints the mean, any failures and the CSV line.
func (r *Report) WriteSummary(w io.Writer) error {
	good, bad := len(r.Succeeded()), len(r.Failed())
	mean, ok := r.Mean()

	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("Results:\n")
	if !ok {
		printf("Average time: n/a (all %d trials failed)\n", bad)
		return err
	}
	printf("Average time: %.2f ms (%d of %d trials)\n", Millis(mean), good, len(r.Samples))
	if bad > 0 {
		printf("Failed trials: %d (excluded from the average)\n", bad)
	}
	if exits := r.WorkerExits(); exits > 0 {
		printf("Workers exited abnormally: %d\n", exits)
	}
	printf("%s\n", r.CSVLine())
	return err
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
