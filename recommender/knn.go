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
	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"github.com/recbench-io/recbench/base"
	"github.com/recbench-io/recbench/base/log"
	"go.uber.org/zap"
)

// Similarities below this magnitude are treated as zero when weighting
// neighbors.
const similarityEpsilon = 1e-8

// KNNConfig holds the construction-time parameters of the KNN recommender.
type KNNConfig struct {
	// Shrinkage is the regularization constant added to the cosine
	// similarity denominator. Must be non-negative.
	Shrinkage float32
	// NeighborhoodSize is the number of most similar users/items considered
	// when estimating a rating. Must be positive.
	NeighborhoodSize int
	// UserBased selects user-based collaborative filtering; otherwise the
	// algorithm is item-based.
	UserBased bool
	// UseContent appends the user/item content feature vectors to the
	// rating rows before computing similarities.
	UseContent bool
	// UseMeans centers neighbor ratings on their row means and anchors the
	// prediction at the target's own mean.
	UseMeans bool
}

// NewKNNConfig returns the default KNN configuration.
func NewKNNConfig() KNNConfig {
	return KNNConfig{
		Shrinkage:        0,
		NeighborhoodSize: 40,
		UserBased:        true,
		UseContent:       true,
		UseMeans:         true,
	}
}

// KNN is a neighborhood-based collaborative filtering recommender supporting
// both user-based and item-based filtering. Its feature, mean and similarity
// matrices are rebuilt from scratch on every update; expensive recomputation
// is the accepted cost of incremental data arrival.
type KNN struct {
	*PredictRecommender
	config     KNNConfig
	ratingRows [][]float32 // dense ratings, one row per entity on the queried axis
	features   [][]float32 // rating rows, optionally with content appended
	means      []float32   // per-row mean over nonzero ratings
	similarity [][]float32
}

// NewKNN creates a KNN recommender with the given configuration.
func NewKNN(config KNNConfig) (*KNN, error) {
	if config.Shrinkage < 0 {
		return nil, errors.NotValidf("shrinkage %v", config.Shrinkage)
	}
	if config.NeighborhoodSize <= 0 {
		return nil, errors.NotValidf("neighborhood size %d", config.NeighborhoodSize)
	}
	knn := &KNN{config: config}
	knn.PredictRecommender = NewPredictRecommender(knn)
	return knn, nil
}

// Fit rebuilds the feature matrix, the row means and the pairwise similarity
// matrix from the current rating store.
func (knn *KNN) Fit() error {
	m := knn.RatingMatrix()
	var ordering []string
	if knn.config.UserBased {
		knn.ratingRows = m.Dense()
		ordering = m.UserOrdering()
	} else {
		knn.ratingRows = m.DenseTransposed()
		ordering = m.ItemOrdering()
	}
	// Per-row mean over rated entries only. Rows without ratings get mean 0.
	knn.means = make([]float32, len(knn.ratingRows))
	for i, row := range knn.ratingRows {
		sum, count := float32(0), float32(0)
		for _, value := range row {
			if value != 0 {
				sum += value
				count++
			}
		}
		knn.means[i] = base.DivideOrZero(sum, count)
	}
	knn.features = knn.ratingRows
	if knn.config.UseContent {
		knn.features = knn.stackContent(knn.ratingRows, ordering)
	}
	knn.similarity = cosineSimilarity(knn.features, knn.config.Shrinkage)
	log.Logger().Debug("fit knn",
		zap.Int("rows", len(knn.features)),
		zap.Bool("user_based", knn.config.UserBased),
		zap.Float32("shrinkage", knn.config.Shrinkage))
	return nil
}

// stackContent horizontally concatenates each rating row with the content
// feature vector of the entity at that row. Entities with missing or short
// vectors are zero-padded to the widest vector on the axis.
func (knn *KNN) stackContent(rows [][]float32, ordering []string) [][]float32 {
	source := knn.items
	if knn.config.UserBased {
		source = knn.users
	}
	width := 0
	for _, id := range ordering {
		if len(source[id]) > width {
			width = len(source[id])
		}
	}
	stacked := make([][]float32, len(rows))
	for i, id := range ordering {
		row := make([]float32, 0, len(rows[i])+width)
		row = append(row, rows[i]...)
		row = append(row, source[id]...)
		for len(row) < len(rows[i])+width {
			row = append(row, 0)
		}
		stacked[i] = row
	}
	return stacked
}

// Predict scores each user-item request with a similarity-weighted
// neighborhood average.
func (knn *KNN) Predict(requests []Request) ([]float32, error) {
	predictions := make([]float32, len(requests))
	for i, request := range requests {
		predictions[i] = knn.predict(request.UserId, request.ItemId)
	}
	return predictions, nil
}

func (knn *KNN) predict(userId, itemId string) float32 {
	m := knn.RatingMatrix()
	var target, opposite int32
	if knn.config.UserBased {
		target, opposite = m.UserIndex(userId), m.ItemIndex(itemId)
	} else {
		target, opposite = m.ItemIndex(itemId), m.UserIndex(userId)
	}
	if target == base.NotId {
		// The target entity has no ratings yet: its mean is 0 and it has no
		// neighborhood, so both prediction modes degrade to 0.
		return 0
	}
	mean := knn.means[target]
	if opposite == base.NotId {
		if knn.config.UseMeans {
			return mean
		}
		return 0
	}
	// Select the neighborhood and keep only neighbors that rated the
	// opposite entity.
	neighbors := base.TopKIndices(knn.similarity[target], knn.config.NeighborhoodSize)
	similarities := make([]float32, 0, len(neighbors))
	ratings := make([]float32, 0, len(neighbors))
	neighborMeans := make([]float32, 0, len(neighbors))
	for _, neighbor := range neighbors {
		if rating := knn.ratingRows[neighbor][opposite]; rating != 0 {
			similarities = append(similarities, knn.similarity[target][neighbor])
			ratings = append(ratings, rating)
			neighborMeans = append(neighborMeans, knn.means[neighbor])
		}
	}
	// Ensure we aren't weighting by all zeros.
	allZero := true
	for _, s := range similarities {
		if math32.Abs(s) > similarityEpsilon {
			allZero = false
			break
		}
	}
	if allZero {
		for i := range similarities {
			similarities[i] = 1
		}
	}
	if knn.config.UseMeans {
		if len(ratings) == 0 {
			return mean
		}
		numerator, denominator := float32(0), float32(0)
		for i := range ratings {
			numerator += similarities[i] * (ratings[i] - neighborMeans[i])
			denominator += similarities[i]
		}
		return mean + base.DivideOrZero(numerator, denominator)
	}
	if len(ratings) == 0 {
		return 0
	}
	numerator, denominator := float32(0), float32(0)
	for i := range ratings {
		numerator += similarities[i] * ratings[i]
		denominator += similarities[i]
	}
	return base.DivideOrZero(numerator, denominator)
}

// cosineSimilarity computes the pairwise shrinkage-regularized cosine
// similarity of the rows: sim[i][j] = rowᵢ·rowⱼ / (‖rowᵢ‖‖rowⱼ‖ + shrinkage),
// where a zero denominator yields similarity 0 instead of NaN.
func cosineSimilarity(rows [][]float32, shrinkage float32) [][]float32 {
	norms := make([]float32, len(rows))
	for i, row := range rows {
		norms[i] = base.Norm(row)
	}
	similarity := base.NewMatrix32(len(rows), len(rows))
	for i := range rows {
		for j := 0; j <= i; j++ {
			s := base.DivideOrZero(base.Dot(rows[i], rows[j]), norms[i]*norms[j]+shrinkage)
			similarity[i][j] = s
			similarity[j][i] = s
		}
	}
	return similarity
}
