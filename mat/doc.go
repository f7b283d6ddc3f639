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

// Package mat holds the pieces shared by every executor: a dense square
// integer matrix, the row partitioner and the naive multiplication kernel.
//
// The kernel is the textbook triple loop over rows of the result:
//
//	c := mat.MustNew(n)
//	for r := range n {
//	    mat.MulRow(a, b, r, c.Row(r))
//	}
//
// Rows are independent, so any set of disjoint row ranges (see Partition) can
// be computed concurrently without locking.
package mat
