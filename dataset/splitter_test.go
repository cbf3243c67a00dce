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

package dataset

import (
	"strconv"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratingsFixture(n int) map[Key]Rating {
	ratings := make(map[Key]Rating, n)
	for i := 0; i < n; i++ {
		key := Key{UserId: strconv.Itoa(i % 10), ItemId: strconv.Itoa(i)}
		ratings[key] = Rating{Value: float32(i % 5), Context: []float32{}}
	}
	return ratings
}

func TestSplitRatings(t *testing.T) {
	ratings := ratingsFixture(100)
	train, test, err := SplitRatings(ratings, 0.9, true, 42)
	require.NoError(t, err)
	assert.Len(t, train, 90)
	assert.Len(t, test, 10)
	// The partitions are disjoint and cover the input.
	for key, rating := range train {
		assert.NotContains(t, test, key)
		assert.Equal(t, ratings[key], rating)
	}
	for key, rating := range test {
		assert.Equal(t, ratings[key], rating)
	}
}

func TestSplitRatingsDeterministic(t *testing.T) {
	ratings := ratingsFixture(50)
	train1, test1, err := SplitRatings(ratings, 0.5, true, 7)
	require.NoError(t, err)
	train2, test2, err := SplitRatings(ratings, 0.5, true, 7)
	require.NoError(t, err)
	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)
	// A different seed produces a different shuffle.
	train3, _, err := SplitRatings(ratings, 0.5, true, 8)
	require.NoError(t, err)
	assert.NotEqual(t, train1, train3)
}

func TestSplitRatingsInvalidFraction(t *testing.T) {
	_, _, err := SplitRatings(ratingsFixture(10), 1.5, false, 0)
	assert.True(t, errors.IsNotValid(err))
	_, _, err = SplitRatings(ratingsFixture(10), -0.1, false, 0)
	assert.True(t, errors.IsNotValid(err))
}
