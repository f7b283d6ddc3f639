// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package bench

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// DefaultTrials is the number of trials when neither a flag nor
// MATBENCH_TRIALS says otherwise.
const DefaultTrials = 5

// TrialsEnv names the environment variable that overrides DefaultTrials.
const TrialsEnv = "MATBENCH_TRIALS"

var (
	// ErrConfig is returned for an invalid harness configuration.
	ErrConfig = errors.New("bench: invalid configuration")

	// ErrNoSamples is returned when every trial failed.
	ErrNoSamples = errors.New("bench: no successful trials")

	// ErrVerify marks a trial whose result differs from the sequential product.
	ErrVerify = errors.New("bench: result differs from sequential reference")
)

// Config describes one benchmark.
type Config struct {
	Size    int
	Workers int
	Trials  int

	// Seed for the input generator. Zero picks a random seed per Run.
	Seed uint64

	// Verify checks every result against mat.Mul. The check is not timed.
	Verify bool
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Size < 1:
		return fmt.Errorf("%w: matrix size must be positive, got %d", ErrConfig, c.Size)
	case c.Workers < 1:
		return fmt.Errorf("%w: worker count must be positive, got %d", ErrConfig, c.Workers)
	case c.Trials < 1:
		return fmt.Errorf("%w: trial count must be positive, got %d", ErrConfig, c.Trials)
	}
	return nil
}

// TrialsFromEnv returns the trial count from MATBENCH_TRIALS, or
// DefaultTrials when it is unset or empty.
func TrialsFromEnv() (int, error) {
	val := os.Getenv(TrialsEnv)
	if val == "" {
		return DefaultTrials, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s=%q is not a positive integer", ErrConfig, TrialsEnv, val)
	}
	return n, nil
}
