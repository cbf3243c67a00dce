// Copyright 2025 recbench Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package base

import (
	"sort"

	"github.com/chewxy/math32"
)

// DivideOrZero divides a by b but returns 0 instead of NaN/Inf when b is zero.
func DivideOrZero(a, b float32) float32 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Dot computes the dot product of two equal-length vectors.
func Dot(a, b []float32) float32 {
	sum := float32(0)
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm computes the Euclidean norm of a vector.
func Norm(a []float32) float32 {
	return math32.Sqrt(Dot(a, a))
}

// NewMatrix32 creates a 2D matrix of 32-bit floats.
func NewMatrix32(row, col int) [][]float32 {
	ret := make([][]float32, row)
	for i := range ret {
		ret[i] = make([]float32, col)
	}
	return ret
}

// TopKIndices returns the indices of the k largest values in descending value
// order. Ties are broken by the original index order, first seen wins. If k
// exceeds the number of values, all indices are returned.
func TopKIndices(values []float32, k int) []int {
	indices := make([]int, len(values))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return values[indices[i]] > values[indices[j]]
	})
	if k < len(indices) {
		indices = indices[:k]
	}
	return indices
}
