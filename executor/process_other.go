// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

//go:build !unix

package executor

import (
	"log/slog"

	"github.com/ajroetker/go-matbench/mat"
)

// Processes is unavailable on this platform; Multiply always fails with
// ErrUnsupported.
type Processes struct {
	Executable string
	Env        []string
	Logger     *slog.Logger
}

var _ Executor = (*Processes)(nil)

// Name implements Executor.
func (p *Processes) Name() string { return NameProcesses }

// Multiply implements Executor.
func (p *Processes) Multiply(a, b, c *mat.Matrix, workers int) (Run, error) {
	if _, err := plan(a, b, c, workers); err != nil {
		return Run{}, err
	}
	return Run{}, ErrUnsupported
}

// MaybeRunWorker does nothing on this platform.
func MaybeRunWorker() {}
