// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

//go:build unix

package executor

import (
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/ajroetker/go-matbench/mat"
)

// testFaultEnv makes one worker misbehave: "<mode>@<start row>".
const testFaultEnv = "MATBENCH_TEST_FAULT"

func TestMain(m *testing.M) {
	if fault, ok := os.LookupEnv(testFaultEnv); ok {
		if assigned, ok := os.LookupEnv(workerEnv); ok {
			os.Exit(runFaultyWorker(assigned, fault))
		}
	}
	MaybeRunWorker()
	os.Exit(m.Run())
}

// runFaultyWorker behaves like MaybeRunWorker except for the worker whose
// range starts at the targeted row, which fails in the requested way.
func runFaultyWorker(assigned, fault string) int {
	mode, target, _ := strings.Cut(fault, "@")
	rr, err := parseRange(assigned)
	if err != nil || strconv.Itoa(rr.Start) != target {
		MaybeRunWorker()
		return 1
	}

	snap := os.NewFile(snapshotFD, "snapshot")
	out := os.NewFile(resultFD, "result")
	defer out.Close()
	rr, rows, err := computeRows(assigned, snap)
	if err != nil {
		return 1
	}

	switch mode {
	case "exit":
		_ = sendRows(out, rr, rows)
		return 3
	case "signal":
		_ = sendRows(out, rr, rows)
		_ = out.Close()
		_ = unix.Kill(os.Getpid(), unix.SIGKILL)
	case "short":
		hdr := []int{rr.Start, rr.End}
		_, _ = out.Write(intBytes(hdr))
		_, _ = out.Write(intBytes(rows[:len(rows)/2]))
	case "badheader":
		_ = sendRows(out, mat.RowRange{Start: rr.Start + 1, End: rr.End + 1}, rows)
	case "trailing":
		_ = sendRows(out, rr, append(rows, 42))
	case "silent":
	}
	return 0
}

func TestProcesses2x2(t *testing.T) {
	a, b := scenario2x2(t)
	c := mat.MustNew(2)

	run, err := (&Processes{}).Multiply(a, b, c, 2)
	require.NoError(t, err)
	require.Equal(t, [][]int{{19, 22}, {43, 50}}, c.ToRows())
	require.Len(t, run.Workers, 2)
	for _, ws := range run.Workers {
		require.NotZero(t, ws.Pid)
		require.NoError(t, ws.ExitErr)
	}
	require.Positive(t, run.Elapsed)
}

func TestProcessesMatchesThreadsAndReference(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 16} {
		for _, w := range []int{1, 2, 3, 8} {
			a, b := randomPair(t, n, uint64(n*31+w))
			want := reference(a, b)

			viaProcs := mat.MustNew(n)
			_, err := (&Processes{}).Multiply(a, b, viaProcs, w)
			require.NoError(t, err, "n=%d w=%d", n, w)

			viaThreads := mat.MustNew(n)
			_, err = (&Threads{}).Multiply(a, b, viaThreads, w)
			require.NoError(t, err, "n=%d w=%d", n, w)

			require.True(t, want.Equal(viaProcs), "n=%d w=%d: processes result differs from reference", n, w)
			require.True(t, want.Equal(viaThreads), "n=%d w=%d: threads result differs from reference", n, w)
		}
	}
}

func TestProcessesSingleCell(t *testing.T) {
	a, _ := mat.FromRows([][]int{{6}})
	b, _ := mat.FromRows([][]int{{7}})
	c := mat.MustNew(1)
	_, err := (&Processes{}).Multiply(a, b, c, 1)
	require.NoError(t, err)
	require.Equal(t, 42, c.At(0, 0))
}

func TestProcessesIdleWorkers(t *testing.T) {
	a, b := scenario2x2(t)
	c := mat.MustNew(2)

	run, err := (&Processes{}).Multiply(a, b, c, 16)
	require.NoError(t, err)
	require.Equal(t, [][]int{{19, 22}, {43, 50}}, c.ToRows())
	require.Len(t, run.Workers, 16)
	for _, ws := range run.Workers[2:] {
		require.Equal(t, mat.RowRange{Start: 2, End: 2}, ws.Range)
		require.Equal(t, int64(headerSize), ws.Bytes)
	}
}

func TestProcessesBytesTransferred(t *testing.T) {
	n, w := 10, 3
	a, b := randomPair(t, n, 5)
	c := mat.MustNew(n)

	run, err := (&Processes{}).Multiply(a, b, c, w)
	require.NoError(t, err)

	var total int64
	for _, ws := range run.Workers {
		require.Equal(t, payloadSize(ws.Range, n), ws.Bytes, "worker %d", ws.ID)
		total += ws.Bytes
	}
	require.Equal(t, int64(w*headerSize+n*n*intSize), total)
}

func TestProcessesLargePayload(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large multiplication in short mode")
	}
	// 150 rows of 300 ints per worker is far more than a pipe buffer holds.
	n, w := 300, 2
	a, b := randomPair(t, n, 6)

	viaProcs := mat.MustNew(n)
	run, err := (&Processes{}).Multiply(a, b, viaProcs, w)
	require.NoError(t, err)
	require.Greater(t, run.Workers[0].Bytes, int64(1<<16))

	viaThreads := mat.MustNew(n)
	_, err = (&Threads{}).Multiply(a, b, viaThreads, w)
	require.NoError(t, err)
	require.True(t, viaThreads.Equal(viaProcs), "processes and threads disagree")
}

func TestProcessesIdempotent(t *testing.T) {
	a, b := randomPair(t, 12, 7)
	first, second := mat.MustNew(12), mat.MustNew(12)
	p := &Processes{}
	_, err := p.Multiply(a, b, first, 4)
	require.NoError(t, err)
	_, err = p.Multiply(a, b, second, 4)
	require.NoError(t, err)
	require.True(t, first.Equal(second))
}

func TestProcessesAbnormalExitKeepsRows(t *testing.T) {
	for _, mode := range []string{"exit", "signal"} {
		t.Run(mode, func(t *testing.T) {
			n := 8
			a, b := randomPair(t, n, 8)
			c := mat.MustNew(n)

			p := &Processes{Env: []string{testFaultEnv + "=" + mode + "@0"}}
			run, err := p.Multiply(a, b, c, 2)
			require.NoError(t, err)
			require.True(t, reference(a, b).Equal(c))
			require.ErrorIs(t, run.Workers[0].ExitErr, ErrWorkerExit)
			require.NoError(t, run.Workers[1].ExitErr)
			if mode == "signal" {
				require.Contains(t, run.Workers[0].ExitErr.Error(), "signal")
			} else {
				require.Contains(t, run.Workers[0].ExitErr.Error(), "exit status 3")
			}
		})
	}
}

func TestProcessesTransferFailures(t *testing.T) {
	tests := []struct {
		mode string
		want error
	}{
		{"short", ErrRead},
		{"silent", ErrRead},
		{"badheader", ErrProtocol},
		{"trailing", ErrProtocol},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			n := 8
			a, b := randomPair(t, n, 9)
			p := &Processes{Env: []string{testFaultEnv + "=" + tt.mode + "@4"}}
			_, err := p.Multiply(a, b, mat.MustNew(n), 2)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProcessesSpawnFailure(t *testing.T) {
	a, b := scenario2x2(t)
	p := &Processes{Executable: "/nonexistent/matbench-worker"}
	_, err := p.Multiply(a, b, mat.MustNew(2), 2)
	require.ErrorIs(t, err, ErrSpawn)
}

func openFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("cannot list open descriptors: %v", err)
	}
	return len(entries)
}

func TestProcessesSpawnFailureMidway(t *testing.T) {
	n, w := 8, 4
	a, b := randomPair(t, n, 11)

	// A first successful run opens whatever the runtime creates lazily
	// (poller, pidfd support) so the descriptor count below is stable.
	_, err := (&Processes{}).Multiply(a, b, mat.MustNew(n), w)
	require.NoError(t, err)
	before := openFDs(t)

	refused := errors.New("refused")
	var started []*exec.Cmd
	p := &Processes{spawn: func(cmd *exec.Cmd) error {
		if len(started) == 2 {
			return refused
		}
		if err := cmd.Start(); err != nil {
			return err
		}
		started = append(started, cmd)
		return nil
	}}
	_, err = p.Multiply(a, b, mat.MustNew(n), w)
	require.ErrorIs(t, err, ErrSpawn)
	require.ErrorIs(t, err, refused)

	require.Len(t, started, 2)
	for i, cmd := range started {
		require.NotNil(t, cmd.ProcessState, "worker %d was not reaped", i)
	}
	require.Equal(t, before, openFDs(t), "descriptors leaked after a failed spawn")
}

func TestProcessesRejectsBadInput(t *testing.T) {
	a, b := scenario2x2(t)
	_, err := (&Processes{}).Multiply(a, b, mat.MustNew(3), 2)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = (&Processes{}).Multiply(a, b, mat.MustNew(2), 0)
	require.ErrorIs(t, err, mat.ErrBadWorkers)
}

func TestSnapshotRoundTrip(t *testing.T) {
	a, b := randomPair(t, 9, 10)
	f, err := writeSnapshot(a, b)
	require.NoError(t, err)
	defer f.Close()

	snap, err := mapSnapshot(f)
	require.NoError(t, err)
	defer snap.Close()

	require.True(t, a.Equal(snap.a))
	require.True(t, b.Equal(snap.b))
	require.NoError(t, snap.Close())
	require.NoError(t, snap.Close())
}

func TestSnapshotRejectsGarbage(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "garbage")
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Write(intBytes([]int{3, 1, 2, 3}))
	require.NoError(t, err)

	_, err = mapSnapshot(f)
	require.Error(t, err)
}

func BenchmarkProcesses(b *testing.B) {
	n := 128
	x, y := randomPair(b, n, 3)
	c := mat.MustNew(n)
	p := &Processes{}
	for b.Loop() {
		if _, err := p.Multiply(x, y, c, 4); err != nil {
			b.Fatal(err)
		}
	}
}
