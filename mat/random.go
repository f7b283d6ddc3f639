// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package mat

import "math/rand/v2"

// Range of the values produced by Random, inclusive.
const (
	RandomMin = 1
	RandomMax = 100
)

// Random returns an n x n matrix with cells drawn uniformly from
// [RandomMin, RandomMax] using rng.
func Random(n int, rng *rand.Rand) (*Matrix, error) {
	m, err := New(n)
	if err != nil {
		return nil, err
	}
	for i := range m.data {
		m.data[i] = RandomMin + rng.IntN(RandomMax-RandomMin+1)
	}
	return m, nil
}
