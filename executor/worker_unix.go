// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

//go:build unix

package executor

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ajroetker/go-matbench/mat"
)

// MaybeRunWorker turns the current process into a Processes worker if it was
// started as one, and never returns in that case: it computes the assigned
// rows, sends them to the parent and exits with status 0, or prints the error
// to stderr and exits with status 1. Otherwise it returns immediately.
func MaybeRunWorker() {
	assigned, ok := os.LookupEnv(workerEnv)
	if !ok {
		return
	}
	snap := os.NewFile(snapshotFD, "snapshot")
	out := os.NewFile(resultFD, "result")
	if err := runWorker(assigned, snap, out); err != nil {
		fmt.Fprintf(os.Stderr, "matbench worker %s: %v\n", assigned, err)
		os.Exit(1)
	}
	os.Exit(0)
}

// runWorker computes the assigned "start:end" rows from the snapshot and writes
// one frame to out. It closes both files.
func runWorker(assigned string, snapFile *os.File, out io.WriteCloser) (err error) {
	defer func() { err = errors.Join(err, out.Close()) }()

	rr, rows, err := computeRows(assigned, snapFile)
	if err != nil {
		return err
	}
	return sendRows(out, rr, rows)
}

// computeRows maps the snapshot and multiplies the assigned rows.
func computeRows(assigned string, snapFile *os.File) (mat.RowRange, []int, error) {
	rr, err := parseRange(assigned)
	if err != nil {
		return rr, nil, err
	}
	snap, err := mapSnapshot(snapFile)
	_ = snapFile.Close()
	if err != nil {
		return rr, nil, err
	}
	defer snap.Close()

	n := snap.a.Size()
	if rr.End > n {
		return rr, nil, fmt.Errorf("rows %v outside %dx%d matrix", rr, n, n)
	}
	rows := make([]int, rr.Len()*n)
	mat.MulRange(snap.a, snap.b, rr, rows)
	return rr, rows, nil
}
