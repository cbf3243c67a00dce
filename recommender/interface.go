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

// Package recommender defines the recommender contract and implements a
// prediction-based base recommender plus a neighborhood algorithm on top of
// it. A recommender instance is single-writer and must not be invoked
// concurrently.
package recommender

import (
	"github.com/recbench-io/recbench/dataset"
)

// UserContext pairs a user with the context in which that user is about to
// receive recommendations.
type UserContext struct {
	UserId  string
	Context []float32
}

// Recommender is the interface all algorithms satisfy. Reset discards prior
// state before loading the given data, Update merges new data into existing
// state, and Recommend returns the best unrated items per user.
type Recommender interface {
	// Reset discards all prior state and re-initializes the recommender
	// from the given users, items and ratings. Any argument may be nil.
	Reset(users, items map[string][]float32, ratings map[dataset.Key]dataset.Rating) error
	// Update merges new users, items and ratings into the existing state
	// without discarding prior data. Any argument may be nil.
	Update(users, items map[string][]float32, ratings map[dataset.Key]dataset.Rating) error
	// Recommend returns, for each user in order, the n items judged best
	// among the items the user has not rated, with their predicted
	// ratings. recs[i][j] pairs with predictions[i][j].
	Recommend(contexts []UserContext, n int) (recs [][]string, predictions [][]float32, err error)
}

// Request is a single user-item pair to score, together with the context in
// which the item would be rated.
type Request struct {
	UserId  string
	ItemId  string
	Context []float32
}

// Predictor predicts the ratings of user-item pairs in bulk. predictions[i]
// is the prediction of the i-th request.
type Predictor interface {
	Predict(requests []Request) ([]float32, error)
}

// Algorithm is the strategy a PredictRecommender delegates to: scoring
// user-item pairs, and rebuilding whatever derived state the algorithm keeps
// whenever the underlying data changes.
type Algorithm interface {
	Predictor
	// Fit rebuilds derived state from the current rating store. It is
	// called after every successful Reset and Update.
	Fit() error
}
