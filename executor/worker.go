// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package executor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ajroetker/go-matbench/mat"
)

// workerEnv marks a process as a worker and carries its row range as
// "start:end". It is set by Processes only.
const workerEnv = "MATBENCH_WORKER"

// Descriptors a worker inherits, in exec.Cmd.ExtraFiles order.
const (
	snapshotFD = 3
	resultFD   = 4
)

func formatRange(rr mat.RowRange) string {
	return strconv.Itoa(rr.Start) + ":" + strconv.Itoa(rr.End)
}

func parseRange(s string) (mat.RowRange, error) {
	startStr, endStr, ok := strings.Cut(s, ":")
	if !ok {
		return mat.RowRange{}, fmt.Errorf("malformed row range %q", s)
	}
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return mat.RowRange{}, fmt.Errorf("malformed row range %q: %w", s, err)
	}
	end, err := strconv.Atoi(endStr)
	if err != nil {
		return mat.RowRange{}, fmt.Errorf("malformed row range %q: %w", s, err)
	}
	if start < 0 || end < start {
		return mat.RowRange{}, fmt.Errorf("invalid row range %q", s)
	}
	return mat.RowRange{Start: start, End: end}, nil
}
