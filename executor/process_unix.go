// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

//go:build unix

package executor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-matbench/mat"
)

// Processes multiplies with one worker process per row range.
//
// A call goes through these steps, all inside the timed region:
//
//  1. Write A and B to an unlinked snapshot file.
//  2. Create one pipe per worker. A failure here aborts before any worker starts.
//  3. Start every worker with the snapshot as fd 3 and its own pipe's write end
//     as fd 4. Every other descriptor is close-on-exec, so a worker holds no
//     channel but its own. A start failure kills and reaps the workers already
//     running and aborts.
//  4. Close the parent's copy of each write end, then drain every pipe
//     concurrently straight into the result rows. A read or protocol failure
//     kills all workers and fails the call.
//  5. Reap every worker. An abnormal exit is logged and recorded in the
//     worker's status but does not discard rows already received.
//
// Draining concurrently means no worker can stall on a full pipe while the
// parent is busy reading a different one.
//
// There is no timeout: a worker that never finishes stalls the call.
type Processes struct {
	// Executable is the binary started for each worker. It must call
	// MaybeRunWorker on startup. Defaults to os.Executable().
	Executable string

	// Env is appended to the parent's environment for each worker.
	Env []string

	// Logger receives diagnostics about abnormal worker exits.
	Logger *slog.Logger

	// spawn replaces (*exec.Cmd).Start in tests.
	spawn func(*exec.Cmd) error
}

var _ Executor = (*Processes)(nil)

// Name implements Executor.
func (p *Processes) Name() string { return NameProcesses }

// channel is one worker's result pipe.
type channel struct {
	r, w *os.File
}

func (ch *channel) closeRead() error {
	if ch.r == nil {
		return nil
	}
	err := ch.r.Close()
	ch.r = nil
	return err
}

func (ch *channel) closeWrite() error {
	if ch.w == nil {
		return nil
	}
	err := ch.w.Close()
	ch.w = nil
	return err
}

func openChannels(count int) ([]channel, error) {
	chans := make([]channel, count)
	for i := range chans {
		r, w, err := os.Pipe()
		if err != nil {
			return nil, errors.Join(fmt.Errorf("%w: worker %d: %w", ErrChannel, i, err), closeChannels(chans[:i]))
		}
		chans[i] = channel{r: r, w: w}
	}
	return chans, nil
}

func closeChannels(chans []channel) error {
	var errs []error
	for i := range chans {
		errs = append(errs, chans[i].closeWrite(), chans[i].closeRead())
	}
	return errors.Join(errs...)
}

// Multiply implements Executor.
func (p *Processes) Multiply(a, b, c *mat.Matrix, workers int) (Run, error) {
	ranges, err := plan(a, b, c, workers)
	if err != nil {
		return Run{}, err
	}
	exe := p.Executable
	if exe == "" {
		if exe, err = os.Executable(); err != nil {
			return Run{}, fmt.Errorf("%w: locating executable: %w", ErrSpawn, err)
		}
	}
	log := loggerOrDiscard(p.Logger)
	spawn := p.spawn
	if spawn == nil {
		spawn = (*exec.Cmd).Start
	}

	start := time.Now()

	snap, err := writeSnapshot(a, b)
	if err != nil {
		return Run{}, err
	}
	defer snap.Close()

	chans, err := openChannels(len(ranges))
	if err != nil {
		return Run{}, err
	}
	defer closeChannels(chans)

	cmds := make([]*exec.Cmd, len(ranges))
	for i, rr := range ranges {
		cmd := exec.Command(exe)
		cmd.Env = append(append(os.Environ(), p.Env...), workerEnv+"="+formatRange(rr))
		cmd.ExtraFiles = []*os.File{snap, chans[i].w}
		cmd.Stderr = os.Stderr
		if err := spawn(cmd); err != nil {
			killAndReap(cmds[:i])
			return Run{}, fmt.Errorf("%w: worker %d (rows %v): %w", ErrSpawn, i, rr, err)
		}
		cmds[i] = cmd
		_ = chans[i].closeWrite()
	}

	statuses := statusesFor(ranges)
	for i, cmd := range cmds {
		statuses[i].Pid = cmd.Process.Pid
	}

	var killOnce sync.Once
	killAll := func() {
		killOnce.Do(func() {
			for _, cmd := range cmds {
				_ = cmd.Process.Kill()
			}
		})
	}

	var g errgroup.Group
	for i, rr := range ranges {
		g.Go(func() error {
			defer chans[i].closeRead()
			n, err := receiveRows(chans[i].r, rr, c)
			statuses[i].Bytes = n
			if err != nil {
				killAll()
				return fmt.Errorf("worker %d (pid %d): %w", i, statuses[i].Pid, err)
			}
			return nil
		})
	}
	drainErr := g.Wait()

	for i, cmd := range cmds {
		if err := cmd.Wait(); err != nil {
			how := describeExit(cmd, err)
			statuses[i].ExitErr = fmt.Errorf("%w: worker %d (pid %d): %s", ErrWorkerExit, i, statuses[i].Pid, how)
			if drainErr == nil {
				log.Warn("worker exited abnormally",
					"worker", i, "pid", statuses[i].Pid, "rows", ranges[i].String(), "status", how)
			}
		}
	}
	if drainErr != nil {
		return Run{Workers: statuses}, drainErr
	}
	return Run{Elapsed: time.Since(start), Workers: statuses}, nil
}

// killAndReap stops workers that were started before a setup failure.
func killAndReap(cmds []*exec.Cmd) {
	for _, cmd := range cmds {
		_ = cmd.Process.Kill()
	}
	for _, cmd := range cmds {
		_ = cmd.Wait()
	}
}

// describeExit renders how a worker ended, from its wait status when available.
func describeExit(cmd *exec.Cmd, err error) string {
	if cmd.ProcessState == nil {
		return err.Error()
	}
	ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus)
	if !ok {
		return cmd.ProcessState.String()
	}
	switch {
	case ws.Signaled():
		return fmt.Sprintf("killed by signal %v", ws.Signal())
	case ws.Exited():
		return fmt.Sprintf("exit status %d", ws.ExitStatus())
	default:
		return cmd.ProcessState.String()
	}
}
