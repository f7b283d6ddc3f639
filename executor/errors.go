// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package executor

import "errors"

// Every message is prefixed with "executor:". Errors returned by Multiply wrap
// one of these sentinels; match them with errors.Is.
var (
	// ErrDimensionMismatch is returned when A, B and the result are not all n x n.
	ErrDimensionMismatch = errors.New("executor: matrices must share the same size")

	// ErrUnknownExecutor is returned by New for an unrecognized name.
	ErrUnknownExecutor = errors.New("executor: unknown executor")

	// ErrUnsupported is returned by Processes on platforms without pipes and mmap.
	ErrUnsupported = errors.New("executor: process executor not supported on this platform")

	// Setup failures. Nothing is left running when one of these is returned.

	// ErrSnapshot means the input snapshot shared with workers could not be created.
	ErrSnapshot = errors.New("executor: cannot create input snapshot")

	// ErrChannel means a worker's result pipe could not be created.
	ErrChannel = errors.New("executor: cannot create result channel")

	// ErrSpawn means a worker process could not be started.
	ErrSpawn = errors.New("executor: cannot start worker")

	// Transfer failures.

	// ErrWrite is reported by a worker that could not send all of its rows.
	ErrWrite = errors.New("executor: worker write failed")

	// ErrRead means the parent could not read a worker's complete header or rows.
	ErrRead = errors.New("executor: result read failed")

	// ErrProtocol means a worker sent a header for rows it was not assigned,
	// or data after its last row.
	ErrProtocol = errors.New("executor: protocol violation")

	// Worker faults.

	// ErrWorkerExit marks a worker process that exited with a non-zero status
	// or was killed by a signal. It is reported per worker in Run.Workers and
	// does not by itself fail the run.
	ErrWorkerExit = errors.New("executor: worker exited abnormally")

	// ErrWorkerPanic means a goroutine worker panicked; the run is failed.
	ErrWorkerPanic = errors.New("executor: worker panicked")
)
