// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package bench times repeated multiplications with an executor.Executor and
// summarizes them.
//
// Every trial multiplies freshly generated random matrices, one trial at a
// time. A trial that fails is kept in the Report with its error, printed as a
// failure and left out of the mean; it is never averaged in as a duration.
//
// The summary ends with a line meant for scripts that aggregate many runs:
//
//	CSV: <workers>,<size>,<mean ms>
package bench
