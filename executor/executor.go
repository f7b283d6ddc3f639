// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package executor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ajroetker/go-matbench/mat"
)

// Executor computes C = A * B with the requested number of workers.
//
// On success every cell of c has been written exactly once and Run.Elapsed is
// the wall-clock time of the complete operation, including any data transfer
// between processes. On failure the contents of c are unspecified and the
// error wraps one of the package sentinels.
type Executor interface {
	Name() string
	Multiply(a, b, c *mat.Matrix, workers int) (Run, error)
}

// Run describes one Multiply call.
type Run struct {
	Elapsed time.Duration
	Workers []WorkerStatus
}

// WorkerStatus describes a single worker of a Run.
type WorkerStatus struct {
	ID    int
	Range mat.RowRange

	// Pid is the worker's process id, or 0 for goroutine workers.
	Pid int

	// Bytes is the number of protocol bytes the parent read from the worker's
	// pipe, header included. Always 0 for goroutine workers.
	Bytes int64

	// ExitErr is non-nil if the worker terminated abnormally.
	ExitErr error
}

// Names of the built-in executors, as accepted by New.
const (
	NameThreads   = "threads"
	NameProcesses = "processes"
)

// New returns the executor registered under name, configured with logger
// (nil discards diagnostics).
func New(name string, logger *slog.Logger) (Executor, error) {
	switch name {
	case NameThreads:
		return &Threads{}, nil
	case NameProcesses:
		return &Processes{Logger: logger}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownExecutor, name, NameThreads, NameProcesses)
	}
}

// plan validates the operands and partitions the rows among workers.
func plan(a, b, c *mat.Matrix, workers int) ([]mat.RowRange, error) {
	if a == nil || b == nil || c == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrDimensionMismatch)
	}
	n := a.Size()
	if b.Size() != n || c.Size() != n {
		return nil, fmt.Errorf("%w: A is %dx%d, B is %dx%d, C is %dx%d",
			ErrDimensionMismatch, n, n, b.Size(), b.Size(), c.Size(), c.Size())
	}
	return mat.Partition(n, workers)
}

func statusesFor(ranges []mat.RowRange) []WorkerStatus {
	statuses := make([]WorkerStatus, len(ranges))
	for i, rr := range ranges {
		statuses[i] = WorkerStatus{ID: i, Range: rr}
	}
	return statuses
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
