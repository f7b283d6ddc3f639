// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package bench

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
)

// Speedup compares one worker count against the single-worker baseline.
type Speedup struct {
	Workers int
	Mean    time.Duration
	OK      bool // false when every trial at this worker count failed

	// Speedup is baseline mean / Mean; Efficiency is Speedup / Workers.
	// Both are zero when either mean is unavailable.
	Speedup    float64
	Efficiency float64
}

// Sweep runs base once for every worker count, in order, and returns the
// reports. A worker count whose trials all failed still yields its report;
// the returned error joins those failures. Size, Trials, Seed and Verify come
// from base; base.Workers is ignored.
func Sweep(base Harness, workerCounts []int) ([]*Report, error) {
	if len(workerCounts) == 0 {
		return nil, fmt.Errorf("%w: no worker counts to sweep", ErrConfig)
	}
	var reports []*Report
	var errs []error
	for _, w := range workerCounts {
		h := base
		h.Workers = w
		r, err := h.Run()
		if r == nil {
			return reports, err
		}
		reports = append(reports, r)
		if err != nil {
			errs = append(errs, fmt.Errorf("%d workers: %w", w, err))
		}
	}
	return reports, errors.Join(errs...)
}

// Speedups derives speedup and efficiency for each report relative to the
// report with one worker. Without a usable one-worker baseline every Speedup
// and Efficiency is zero.
func Speedups(reports []*Report) []Speedup {
	baseline, hasBaseline := time.Duration(0), false
	if base, found := lo.Find(reports, func(r *Report) bool { return r.Workers == 1 }); found {
		baseline, hasBaseline = base.Mean()
	}

	return lo.Map(reports, func(r *Report, _ int) Speedup {
		mean, ok := r.Mean()
		s := Speedup{Workers: r.Workers, Mean: mean, OK: ok}
		if ok && hasBaseline && mean > 0 {
			s.Speedup = float64(baseline) / float64(mean)
			s.Efficiency = s.Speedup / float64(r.Workers)
		}
		return s
	})
}

// WriteSpeedups prints speedups as an aligned table followed by CSV rows
// with the header "workers,matrix_size,average_time_ms,speedup".
func WriteSpeedups(w io.Writer, title string, size int, speedups []Speedup) error {
	if _, err := fmt.Fprintf(w, "=== %s, %d x %d ===\n", title, size, size); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "workers\tmean ms\tspeedup\tefficiency\t")
	for _, s := range speedups {
		if !s.OK {
			fmt.Fprintf(tw, "%d\tfailed\t-\t-\t\n", s.Workers)
			continue
		}
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\t\n", s.Workers, Millis(s.Mean), s.Speedup, s.Efficiency)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\nworkers,matrix_size,average_time_ms,speedup"); err != nil {
		return err
	}
	for _, s := range speedups {
		if !s.OK {
			continue
		}
		if _, err := fmt.Fprintf(w, "%d,%d,%.2f,%.3f\n", s.Workers, size, Millis(s.Mean), s.Speedup); err != nil {
			return err
		}
	}
	return nil
}
