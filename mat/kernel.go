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

package mat

// MulRow computes row r of A * B into out:
//
//	out[j] = sum(A[r,k] * B[k,j]) for k in 0..n-1
//
// len(out) must be at least n. The sums use plain int arithmetic, so a product
// that exceeds the int range wraps around silently; nothing detects or corrects
// it. With the benchmark's 1..100 inputs that needs n in the hundreds of
// trillions, far beyond what fits in memory.
//
// MulRow only reads a and b and only writes out, so distinct rows can be
// computed concurrently.
func MulRow(a, b *Matrix, r int, out []int) {
	n := a.n
	arow := a.Row(r)
	out = out[:n]
	for j := range n {
		sum := 0
		for k := range n {
			sum += arow[k] * b.data[k*n+j]
		}
		out[j] = sum
	}
}

// MulRange computes rows rr of A * B into out, which holds rr.Len() rows
// row-major (for example the slice returned by Matrix.Rows(rr)).
// An empty range is a no-op.
func MulRange(a, b *Matrix, rr RowRange, out []int) {
	n := a.n
	for r := rr.Start; r < rr.End; r++ {
		off := (r - rr.Start) * n
		MulRow(a, b, r, out[off:off+n:off+n])
	}
}

// Mul computes C = A * B sequentially. It is the reference the parallel
// executors are checked against.
func Mul(a, b, c *Matrix) {
	MulRange(a, b, RowRange{0, a.n}, c.data)
}
