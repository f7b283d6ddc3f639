// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/ajroetker/go-matbench/bench"
	"github.com/ajroetker/go-matbench/executor"
)

func TestMain(m *testing.M) {
	executor.MaybeRunWorker()
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRunCommands(t *testing.T) {
	for _, name := range []string{"threads", "processes"} {
		t.Run(name, func(t *testing.T) {
			stdout, stderr, err := run(t, name, "16", "3", "--trials", "2", "--seed", "7", "--verify")
			if err != nil {
				t.Fatalf("%s failed: %v\nstderr:\n%s", name, err, stderr)
			}
			lines := strings.Split(strings.TrimSpace(stdout), "\n")
			last := lines[len(lines)-1]
			if !strings.HasPrefix(last, "CSV: 3,16,") {
				t.Errorf("last line = %q, want CSV: 3,16,<mean>", last)
			}
			if !strings.Contains(stdout, "Run 2... ") {
				t.Errorf("stdout lacks per-trial lines:\n%s", stdout)
			}
		})
	}
}

func TestInvalidArguments(t *testing.T) {
	tests := [][]string{
		{"threads"},
		{"threads", "10"},
		{"threads", "0", "4"},
		{"processes", "10", "-2"},
		{"processes", "ten", "2"},
		{"threads", "10", "2", "3"},
	}
	for _, args := range tests {
		stdout, stderr, err := run(t, args...)
		if err == nil {
			t.Errorf("%v: succeeded, want error", args)
			continue
		}
		if !strings.Contains(stderr, "Usage:") {
			t.Errorf("%v: stderr lacks usage:\n%s", args, stderr)
		}
		if strings.Contains(stdout, "CSV:") {
			t.Errorf("%v: multiplication ran despite invalid arguments", args)
		}
	}
}

func TestTrialsFromEnvironment(t *testing.T) {
	t.Setenv(bench.TrialsEnv, "3")
	stdout, _, err := run(t, "threads", "4", "2", "--seed", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "Run 3... ") || strings.Contains(stdout, "Run 4... ") {
		t.Errorf("want exactly 3 trials:\n%s", stdout)
	}

	t.Setenv(bench.TrialsEnv, "zero")
	if _, _, err := run(t, "threads", "4", "2"); err == nil {
		t.Errorf("invalid %s accepted", bench.TrialsEnv)
	}
	if _, _, err := run(t, "threads", "4", "2", "--trials", "1"); err != nil {
		t.Errorf("--trials should override invalid %s: %v", bench.TrialsEnv, err)
	}
}

func TestSweepCommand(t *testing.T) {
	stdout, stderr, err := run(t, "sweep", "12", "3", "--mode", "threads", "--trials", "1")
	if err != nil {
		t.Fatalf("sweep failed: %v\nstderr:\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "workers,matrix_size,average_time_ms,speedup") {
		t.Errorf("sweep output lacks CSV header:\n%s", stdout)
	}
	for _, prefix := range []string{"\n1,12,", "\n2,12,", "\n3,12,"} {
		if !strings.Contains(stdout, prefix) {
			t.Errorf("sweep output lacks row %q:\n%s", prefix, stdout)
		}
	}

	if !strings.Contains(stdout, "=== Statistics ===") || !strings.Contains(stdout, "Peak speedup:") {
		t.Errorf("sweep output lacks statistics:\n%s", stdout)
	}
	if strings.Contains(stdout, "faster than") {
		t.Errorf("single-mode sweep must not compare executors:\n%s", stdout)
	}

	if _, _, err := run(t, "sweep", "12", "3", "--mode", "gpu"); err == nil {
		t.Errorf("sweep accepted an invalid --mode")
	}
}

func TestSweepBothComparesExecutors(t *testing.T) {
	stdout, stderr, err := run(t, "sweep", "8", "2", "--mode", "both", "--trials", "1")
	if err != nil {
		t.Fatalf("sweep failed: %v\nstderr:\n%s", err, stderr)
	}
	for _, want := range []string{"=== threads, 8 x 8 ===", "=== processes, 8 x 8 ===", "threads:\n", "processes:\n", "At 1 worker "} {
		if !strings.Contains(stdout, want) {
			t.Errorf("sweep output lacks %q:\n%s", want, stdout)
		}
	}
}
