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

// Command matbench times parallel matrix multiplication with worker threads
// or worker processes.
//
// Usage:
//
//	matbench threads 1000 4            # 5 trials, 1000x1000, 4 goroutines
//	matbench processes 1000 4          # same with 4 worker processes
//	matbench sweep 500 8 --mode both   # 1..8 workers, speedup table
//
// Each run prints one line per trial, the mean, and a final line
//
//	CSV: <workers>,<size>,<mean ms>
//
// for collecting results across runs. MATBENCH_TRIALS changes the default
// trial count.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajroetker/go-matbench/bench"
	"github.com/ajroetker/go-matbench/executor"
)

func main() {
	executor.MaybeRunWorker()

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// options holds the flags shared by every subcommand.
type options struct {
	trials   int
	seed     uint64
	verify   bool
	logLevel string
}

func (o *options) addFlags(fs *pflag.FlagSet, defaultTrials int) {
	fs.IntVar(&o.trials, "trials", defaultTrials, "number of timed trials (env "+bench.TrialsEnv+")")
	fs.Uint64Var(&o.seed, "seed", 0, "input generator seed, 0 for random")
	fs.BoolVar(&o.verify, "verify", false, "check every result against the sequential product")
	fs.StringVar(&o.logLevel, "log-level", "warn", "diagnostics level: debug, info, warn or error")
}

func (o *options) logger(stderr io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})), nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "matbench",
		Short: "Benchmark parallel matrix multiplication with threads or processes",
	}
	// Usage and errors go to stderr; only results go to stdout.
	root.SetErr(stderr)
	root.SetOut(stderr)

	defaultTrials, envErr := bench.TrialsFromEnv()
	if envErr != nil {
		defaultTrials = bench.DefaultTrials
	}
	opts.addFlags(root.PersistentFlags(), defaultTrials)
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if envErr != nil && !cmd.Flags().Changed("trials") {
			return envErr
		}
		return nil
	}

	for _, name := range []string{executor.NameThreads, executor.NameProcesses} {
		root.AddCommand(newRunCmd(name, opts, stdout))
	}
	root.AddCommand(newSweepCmd(opts, stdout))
	return root
}

func newRunCmd(name string, opts *options, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <size> <workers>",
		Short: "Multiply size x size matrices using " + name,
		Args:  cobra.MatchAll(cobra.ExactArgs(2), positiveArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			size, workers := mustAtoi(args[0]), mustAtoi(args[1])

			log, err := opts.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ex, err := executor.New(name, log)
			if err != nil {
				return err
			}
			h := &bench.Harness{
				Config: bench.Config{
					Size:    size,
					Workers: workers,
					Trials:  opts.trials,
					Seed:    opts.seed,
					Verify:  opts.verify,
				},
				Executor: ex,
				Out:      stdout,
				Logger:   log,
			}
			report, err := h.Run()
			if err != nil {
				return err
			}
			if failed := len(report.Failed()); failed > 0 {
				return fmt.Errorf("%d of %d trials failed", failed, len(report.Samples))
			}
			return nil
		},
	}
}

func newSweepCmd(opts *options, stdout io.Writer) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "sweep <size> <max-workers>",
		Short: "Run 1..max-workers workers and report speedup over one worker",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), positiveArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var names []string
			switch mode {
			case "both":
				names = []string{executor.NameThreads, executor.NameProcesses}
			case executor.NameThreads, executor.NameProcesses:
				names = []string{mode}
			default:
				return fmt.Errorf("invalid --mode %q: want threads, processes or both", mode)
			}
			cmd.SilenceUsage = true
			size, maxWorkers := mustAtoi(args[0]), mustAtoi(args[1])

			log, err := opts.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			counts := make([]int, maxWorkers)
			for i := range counts {
				counts[i] = i + 1
			}

			out := stdout
			var sweepErr error
			var summaries []bench.Summary
			sweeps := make(map[string][]*bench.Report)
			for _, name := range names {
				ex, err := executor.New(name, log)
				if err != nil {
					return err
				}
				base := bench.Harness{
					Config:   bench.Config{Size: size, Trials: opts.trials, Seed: opts.seed, Verify: opts.verify},
					Executor: ex,
					Out:      io.Discard,
					Logger:   log,
				}
				reports, err := bench.Sweep(base, counts)
				if err != nil {
					log.Error("sweep had failures", "executor", name, "error", err)
					sweepErr = err
				}
				speedups := bench.Speedups(reports)
				if err := bench.WriteSpeedups(out, name, size, speedups); err != nil {
					return err
				}
				fmt.Fprintln(out)
				summaries = append(summaries, bench.Summarize(name, speedups))
				sweeps[name] = reports
			}

			var cmp *bench.Comparison
			if len(names) == 2 {
				if c, ok := bench.Compare(names[0], sweeps[names[0]], names[1], sweeps[names[1]]); ok {
					cmp = &c
				}
			}
			if err := bench.WriteStatistics(out, summaries, cmp); err != nil {
				return err
			}
			return sweepErr
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "both", "executors to sweep: threads, processes or both")
	return cmd
}

// positiveArgs requires every argument to be a positive integer.
func positiveArgs(_ *cobra.Command, args []string) error {
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n <= 0 {
			return fmt.Errorf("matrix size and worker count must be positive integers, got %q", a)
		}
	}
	return nil
}

// mustAtoi converts an argument already checked by positiveArgs.
func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		panic(err)
	}
	return n
}
