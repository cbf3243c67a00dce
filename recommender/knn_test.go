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

package recommender

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"github.com/recbench-io/recbench/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-5

func TestNewKNNValidation(t *testing.T) {
	_, err := NewKNN(KNNConfig{Shrinkage: -1, NeighborhoodSize: 40})
	assert.True(t, errors.IsNotValid(err))
	_, err = NewKNN(KNNConfig{Shrinkage: 0, NeighborhoodSize: 0})
	assert.True(t, errors.IsNotValid(err))
	knn, err := NewKNN(NewKNNConfig())
	assert.NoError(t, err)
	assert.NotNil(t, knn)
}

func TestCosineSimilarityBounds(t *testing.T) {
	rows := [][]float32{
		{1, 0, 2, 5},
		{0, 3, 1, 0},
		{4, 4, 4, 4},
		{-1, 2, -3, 0.5},
	}
	similarity := cosineSimilarity(rows, 0)
	for i := range rows {
		// Self-similarity of a nonzero row is 1.
		assert.InDelta(t, 1, similarity[i][i], epsilon)
		for j := range rows {
			assert.GreaterOrEqual(t, similarity[i][j], float32(-1)-epsilon)
			assert.LessOrEqual(t, similarity[i][j], float32(1)+epsilon)
			assert.Equal(t, similarity[i][j], similarity[j][i])
		}
	}
}

func TestCosineSimilarityShrinkage(t *testing.T) {
	rows := [][]float32{
		{1, 2, 3},
		{3, 2, 1},
	}
	// Magnitude dampens monotonically as shrinkage increases.
	previous := math32.Abs(cosineSimilarity(rows, 0)[0][1])
	for _, shrinkage := range []float32{1, 10, 100} {
		current := math32.Abs(cosineSimilarity(rows, shrinkage)[0][1])
		assert.Less(t, current, previous)
		previous = current
	}
}

func TestCosineSimilarityZeroRow(t *testing.T) {
	rows := [][]float32{
		{0, 0, 0},
		{1, 2, 3},
	}
	similarity := cosineSimilarity(rows, 0)
	// A zero-norm row yields similarity 0, never NaN.
	assert.Zero(t, similarity[0][0])
	assert.Zero(t, similarity[0][1])
	assert.Zero(t, similarity[1][0])
	assert.False(t, math32.IsNaN(similarity[0][1]))
}

func TestKNNMeans(t *testing.T) {
	knn := newTestKNN(t)
	require.NoError(t, knn.Reset(noFeatures("a", "b"), noFeatures("x", "y", "z"), map[dataset.Key]dataset.Rating{
		{UserId: "a", ItemId: "x"}: rate(2),
		{UserId: "a", ItemId: "y"}: rate(4),
		{UserId: "b", ItemId: "x"}: rate(5),
	}))
	m := knn.RatingMatrix()
	// Means are over rated entries only, not matrix width.
	assert.InDelta(t, 3, knn.means[m.UserIndex("a")], epsilon)
	assert.InDelta(t, 5, knn.means[m.UserIndex("b")], epsilon)
}

func TestKNNUniformReweight(t *testing.T) {
	// The two users share no rated items and no content, so their
	// similarity is 0 and the surviving neighbor weights are replaced with
	// uniform weights instead of producing a degenerate zero-weight average.
	ratings := map[dataset.Key]dataset.Rating{
		{UserId: "a", ItemId: "x"}: rate(2),
		{UserId: "b", ItemId: "y"}: rate(4),
	}
	knn, err := NewKNN(KNNConfig{NeighborhoodSize: 40, UserBased: true, UseMeans: true})
	require.NoError(t, err)
	require.NoError(t, knn.Reset(noFeatures("a", "b"), noFeatures("x", "y"), ratings))
	predictions, err := knn.Predict([]Request{{UserId: "a", ItemId: "y"}})
	require.NoError(t, err)
	// Own mean plus the centered rating of the uniformly weighted neighbor:
	// 2 + (4 - 4) = 2.
	assert.InDelta(t, 2, predictions[0], epsilon)

	knn, err = NewKNN(KNNConfig{NeighborhoodSize: 40, UserBased: true, UseMeans: false})
	require.NoError(t, err)
	require.NoError(t, knn.Reset(noFeatures("a", "b"), noFeatures("x", "y"), ratings))
	predictions, err = knn.Predict([]Request{{UserId: "a", ItemId: "y"}})
	require.NoError(t, err)
	// Raw uniformly weighted average of the single neighbor rating.
	assert.InDelta(t, 4, predictions[0], epsilon)
}

func TestKNNFallbacks(t *testing.T) {
	ratings := map[dataset.Key]dataset.Rating{
		{UserId: "a", ItemId: "x"}: rate(2),
		{UserId: "a", ItemId: "y"}: rate(4),
	}
	knn := newTestKNN(t)
	require.NoError(t, knn.Reset(noFeatures("a", "b"), noFeatures("x", "y", "z"), ratings))
	// Nobody rated z: prediction falls back to the target's own mean.
	predictions, err := knn.Predict([]Request{{UserId: "a", ItemId: "z"}})
	require.NoError(t, err)
	assert.InDelta(t, 3, predictions[0], epsilon)
	// User b never rated anything: no mean, no neighborhood, prediction 0.
	predictions, err = knn.Predict([]Request{{UserId: "b", ItemId: "z"}})
	require.NoError(t, err)
	assert.Zero(t, predictions[0])

	// Without mean centering the fallbacks are 0.
	knn, err = NewKNN(KNNConfig{NeighborhoodSize: 40, UserBased: true, UseMeans: false})
	require.NoError(t, err)
	require.NoError(t, knn.Reset(noFeatures("a", "b"), noFeatures("x", "y", "z"), ratings))
	predictions, err = knn.Predict([]Request{{UserId: "a", ItemId: "z"}})
	require.NoError(t, err)
	assert.Zero(t, predictions[0])
}

func TestKNNItemBased(t *testing.T) {
	knn, err := NewKNN(KNNConfig{NeighborhoodSize: 40, UserBased: false, UseMeans: false})
	require.NoError(t, err)
	require.NoError(t, knn.Reset(noFeatures("u0", "u1"), noFeatures("i0", "i1"), map[dataset.Key]dataset.Rating{
		{UserId: "u0", ItemId: "i0"}: rate(5),
		{UserId: "u0", ItemId: "i1"}: rate(1),
		{UserId: "u1", ItemId: "i0"}: rate(5),
	}))
	// Item-based: the only neighbor of i1 that u1 rated is i0.
	predictions, err := knn.Predict([]Request{{UserId: "u1", ItemId: "i1"}})
	require.NoError(t, err)
	assert.InDelta(t, 5, predictions[0], epsilon)
}

func TestKNNContentSimilarity(t *testing.T) {
	users := map[string][]float32{"a": {1, 0}, "b": {1, 0}}
	items := noFeatures("x", "y")
	ratings := map[dataset.Key]dataset.Rating{
		{UserId: "a", ItemId: "x"}: rate(4),
		{UserId: "b", ItemId: "y"}: rate(2),
	}
	// Disjoint ratings alone give similarity 0; shared content features
	// make the users similar.
	withContent, err := NewKNN(KNNConfig{NeighborhoodSize: 40, UserBased: true, UseContent: true})
	require.NoError(t, err)
	require.NoError(t, withContent.Reset(users, items, ratings))
	withoutContent, err := NewKNN(KNNConfig{NeighborhoodSize: 40, UserBased: true, UseContent: false})
	require.NoError(t, err)
	require.NoError(t, withoutContent.Reset(users, items, ratings))

	m := withContent.RatingMatrix()
	i, j := m.UserIndex("a"), m.UserIndex("b")
	assert.Greater(t, withContent.similarity[i][j], float32(0))
	assert.Zero(t, withoutContent.similarity[i][j])
}
