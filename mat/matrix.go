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

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrBadSize is returned for a matrix dimension < 1.
	ErrBadSize = errors.New("mat: matrix size must be >= 1")

	// ErrBadWorkers is returned for a worker count < 1.
	ErrBadWorkers = errors.New("mat: worker count must be >= 1")

	// ErrShape is returned when data does not describe an n x n matrix.
	ErrShape = errors.New("mat: data is not a square n x n matrix")
)

// Matrix is a square, dense, row-major matrix of ints.
// The dimension is fixed at construction.
type Matrix struct {
	n    int
	data []int
}

// New returns a zeroed n x n matrix.
func New(n int) (*Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadSize, n)
	}
	return &Matrix{n: n, data: make([]int, n*n)}, nil
}

// MustNew is like New but panics on an invalid size.
func MustNew(n int) *Matrix {
	m, err := New(n)
	if err != nil {
		panic(err)
	}
	return m
}

// Wrap returns a matrix backed by data without copying it.
// len(data) must be exactly n*n.
func Wrap(n int, data []int) (*Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadSize, n)
	}
	if len(data) != n*n {
		return nil, fmt.Errorf("%w: %d elements for n=%d", ErrShape, len(data), n)
	}
	return &Matrix{n: n, data: data[:n*n:n*n]}, nil
}

// FromRows copies rows into a new matrix. Every row must have len(rows) entries.
func FromRows(rows [][]int) (*Matrix, error) {
	n := len(rows)
	m, err := New(n)
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrShape, r, len(row), n)
		}
		copy(m.Row(r), row)
	}
	return m, nil
}

// Size returns the dimension n.
func (m *Matrix) Size() int { return m.n }

// At returns the cell at (r, c).
func (m *Matrix) At(r, c int) int {
	m.check(r, c)
	return m.data[r*m.n+c]
}

// Set assigns the cell at (r, c).
func (m *Matrix) Set(r, c, v int) {
	m.check(r, c)
	m.data[r*m.n+c] = v
}

func (m *Matrix) check(r, c int) {
	if uint(r) >= uint(m.n) || uint(c) >= uint(m.n) {
		panic(fmt.Sprintf("mat: index (%d, %d) out of range for %dx%d matrix", r, c, m.n, m.n))
	}
}

// Row returns row r. The slice capacity ends at the row boundary, so
// appending to it or re-slicing past its length cannot reach row r+1.
func (m *Matrix) Row(r int) []int {
	start := r * m.n
	return m.data[start : start+m.n : start+m.n]
}

// Rows returns the contiguous block of rows covered by rr, row-major,
// with the same capacity limit as Row.
func (m *Matrix) Rows(rr RowRange) []int {
	start, end := rr.Start*m.n, rr.End*m.n
	return m.data[start:end:end]
}

// Data returns the whole backing slice, row-major.
func (m *Matrix) Data() []int { return m.data }

// ToRows copies the matrix into a slice of rows.
func (m *Matrix) ToRows() [][]int {
	rows := make([][]int, m.n)
	for r := range rows {
		rows[r] = slices.Clone(m.Row(r))
	}
	return rows
}

// Equal reports whether m and o have the same size and cells.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.n == o.n && slices.Equal(m.data, o.data)
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{n: m.n, data: slices.Clone(m.data)}
}

// Zero clears every cell.
func (m *Matrix) Zero() {
	clear(m.data)
}

// String formats the matrix one row per line; meant for small matrices.
func (m *Matrix) String() string {
	var sb strings.Builder
	for r := range m.n {
		fmt.Fprintln(&sb, m.Row(r))
	}
	return sb.String()
}
