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

// Package executor multiplies square matrices in parallel using one of two
// strategies and reports how long the whole operation took.
//
// Threads runs one goroutine per row range. All goroutines share A, B and the
// result; each writes only its own rows, so no locks are needed and the final
// join is the only synchronization.
//
// Processes runs one operating-system process per row range. Inputs reach the
// workers through a read-only snapshot file that each worker maps into memory,
// and every worker sends its rows back over its own pipe using a tiny framed
// protocol:
//
//	+-------------+-----------+--------------------------------------+
//	| start (int) | end (int) | (end-start)*n ints, row-major        |
//	+-------------+-----------+--------------------------------------+
//
// Integers use the machine's native width and byte order; the format is only
// meant for a parent and children running on the same host.
//
// Worker processes are re-executions of the current binary. Any program that
// uses Processes, test binaries included, must call MaybeRunWorker before doing
// anything else:
//
//	func main() {
//	    executor.MaybeRunWorker()
//	    ...
//	}
//
//	func TestMain(m *testing.M) {
//	    executor.MaybeRunWorker()
//	    os.Exit(m.Run())
//	}
//
// Both executors are single-shot: a call creates every goroutine, process,
// pipe and file it needs and releases all of them before returning. Calls on
// the same executor must not overlap.
package executor
