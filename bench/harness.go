// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package bench

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/ajroetker/go-matbench/executor"
	"github.com/ajroetker/go-matbench/mat"
)

// Harness runs Config.Trials multiplications with Executor, strictly one
// after another, and prints one line per trial plus a summary to Out.
type Harness struct {
	Config

	Executor executor.Executor

	// Out receives the human-readable report. Nil discards it.
	Out io.Writer

	// Logger receives diagnostics about failed trials. Nil discards them.
	Logger *slog.Logger
}

// Run executes every trial and returns the report. It returns an error,
// along with the report, if the configuration is invalid (nil report) or no
// trial succeeded.
func (h *Harness) Run() (*Report, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if h.Executor == nil {
		return nil, fmt.Errorf("%w: no executor", ErrConfig)
	}
	out := h.Out
	if out == nil {
		out = io.Discard
	}
	log := h.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	seed := h.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))

	report := &Report{
		Executor: h.Executor.Name(),
		Size:     h.Size,
		Workers:  h.Workers,
		Seed:     seed,
	}

	fmt.Fprintf(out, "=== Matrix multiplication with %s ===\n", report.Executor)
	fmt.Fprintf(out, "Matrix size: %d x %d\n", h.Size, h.Size)
	fmt.Fprintf(out, "Workers: %d\n\n", h.Workers)

	for trial := 1; trial <= h.Trials; trial++ {
		fmt.Fprintf(out, "Run %d... ", trial)
		s := h.trial(trial, rng)
		report.Samples = append(report.Samples, s)
		if s.Err != nil {
			fmt.Fprintf(out, "FAILED: %v\n", s.Err)
			log.Error("trial failed", "executor", report.Executor, "trial", trial, "error", s.Err)
			continue
		}
		fmt.Fprintf(out, "%.2f ms\n", Millis(s.Elapsed))
	}

	fmt.Fprintln(out)
	if err := report.WriteSummary(out); err != nil {
		return report, err
	}
	if len(report.Succeeded()) == 0 {
		return report, fmt.Errorf("%w: all %d trials failed", ErrNoSamples, h.Trials)
	}
	return report, nil
}

// trial generates fresh inputs and times one multiplication.
func (h *Harness) trial(trial int, rng *rand.Rand) Sample {
	s := Sample{Trial: trial}
	a, err := mat.Random(h.Size, rng)
	if err != nil {
		s.Err = err
		return s
	}
	b, _ := mat.Random(h.Size, rng)
	c := mat.MustNew(h.Size)

	run, err := h.Executor.Multiply(a, b, c, h.Workers)
	s.Workers = run.Workers
	if err != nil {
		s.Err = err
		return s
	}
	if h.Verify {
		want := mat.MustNew(h.Size)
		mat.Mul(a, b, want)
		if !want.Equal(c) {
			s.Err = fmt.Errorf("%w: trial %d", ErrVerify, trial)
			return s
		}
	}
	s.Elapsed = run.Elapsed
	return s
}
