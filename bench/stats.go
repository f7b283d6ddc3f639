// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"
)

// Summary condenses one executor's sweep.
type Summary struct {
	Title string

	// OK is false when no worker count produced a mean; every other field
	// is then zero.
	OK bool

	MinMean, MaxMean time.Duration

	// PeakSpeedup is the largest speedup over the one-worker baseline and
	// PeakWorkers the worker count that reached it. Both are zero without a
	// baseline.
	PeakSpeedup float64
	PeakWorkers int
}

// Summarize returns the fastest and slowest mean and the peak speedup of a
// sweep. Worker counts whose trials all failed are ignored.
func Summarize(title string, speedups []Speedup) Summary {
	s := Summary{Title: title}
	ok := lo.Filter(speedups, func(sp Speedup, _ int) bool { return sp.OK })
	if len(ok) == 0 {
		return s
	}
	s.OK = true
	s.MinMean = lo.MinBy(ok, func(a, b Speedup) bool { return a.Mean < b.Mean }).Mean
	s.MaxMean = lo.MaxBy(ok, func(a, b Speedup) bool { return a.Mean > b.Mean }).Mean
	if peak := lo.MaxBy(ok, func(a, b Speedup) bool { return a.Speedup > b.Speedup }); peak.Speedup > 0 {
		s.PeakSpeedup, s.PeakWorkers = peak.Speedup, peak.Workers
	}
	return s
}

// Comparison contrasts two executors at one worker, where the difference is
// the fixed cost of the strategy rather than parallelism.
type Comparison struct {
	Faster, Slower         string
	FasterMean, SlowerMean time.Duration

	// Percent is (SlowerMean - FasterMean) / FasterMean * 100.
	Percent float64
}

// Compare contrasts the one-worker means of two sweeps. ok is false if
// either sweep lacks a successful one-worker report.
func Compare(nameA string, a []*Report, nameB string, b []*Report) (c Comparison, ok bool) {
	meanA, okA := singleWorkerMean(a)
	meanB, okB := singleWorkerMean(b)
	if !okA || !okB || meanA <= 0 || meanB <= 0 {
		return Comparison{}, false
	}
	c = Comparison{Faster: nameA, Slower: nameB, FasterMean: meanA, SlowerMean: meanB}
	if meanB < meanA {
		c = Comparison{Faster: nameB, Slower: nameA, FasterMean: meanB, SlowerMean: meanA}
	}
	c.Percent = float64(c.SlowerMean-c.FasterMean) / float64(c.FasterMean) * 100
	return c, true
}

func singleWorkerMean(reports []*Report) (time.Duration, bool) {
	r, found := lo.Find(reports, func(r *Report) bool { return r.Workers == 1 })
	if !found {
		return 0, false
	}
	return r.Mean()
}

// WriteStatistics prints each summary and, if cmp is non-nil, the
// one-worker comparison.
func WriteStatistics(w io.Writer, summaries []Summary, cmp *Comparison) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("=== Statistics ===\n")
	for _, s := range summaries {
		printf("%s:\n", s.Title)
		if !s.OK {
			printf("  no successful worker counts\n")
			continue
		}
		printf("  Minimum time: %.2f ms\n", Millis(s.MinMean))
		printf("  Maximum time: %.2f ms\n", Millis(s.MaxMean))
		if s.PeakWorkers == 0 {
			printf("  Peak speedup: n/a (no 1-worker baseline)\n")
			continue
		}
		printf("  Peak speedup: %.2fx at %d workers\n", s.PeakSpeedup, s.PeakWorkers)
	}
	if cmp != nil {
		printf("At 1 worker %s is %.1f%% faster than %s\n", cmp.Faster, cmp.Percent, cmp.Slower)
	}
	return err
}
