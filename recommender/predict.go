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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/recbench-io/recbench/base"
	"github.com/recbench-io/recbench/dataset"
	"github.com/recbench-io/recbench/matrix"
)

// PredictRecommender implements the Recommender contract generically in
// terms of an Algorithm that scores user-item pairs. It keeps the feature
// dictionaries, the rating matrix, the per-pair context history and the
// rated-id bookkeeping sets; concrete algorithms embed it and read that
// state when fitting and predicting.
type PredictRecommender struct {
	algorithm Algorithm
	users     map[string][]float32
	items     map[string][]float32
	itemOrder []string // item IDs in first-seen order
	ratings   *matrix.RatingMatrix
	contexts  map[dataset.Key][][]float32
	userItems map[string]mapset.Set[string] // user ID -> IDs of items the user rated
	itemUsers map[string]mapset.Set[string] // item ID -> IDs of users who rated the item
}

// NewPredictRecommender creates a PredictRecommender delegating to the given
// algorithm.
func NewPredictRecommender(algorithm Algorithm) *PredictRecommender {
	r := &PredictRecommender{algorithm: algorithm}
	r.clear()
	return r
}

func (r *PredictRecommender) clear() {
	r.users = make(map[string][]float32)
	r.items = make(map[string][]float32)
	r.itemOrder = nil
	r.ratings = matrix.New()
	r.contexts = make(map[dataset.Key][][]float32)
	r.userItems = make(map[string]mapset.Set[string])
	r.itemUsers = make(map[string]mapset.Set[string])
}

// Reset discards all prior state and re-initializes from the given data.
func (r *PredictRecommender) Reset(users, items map[string][]float32, ratings map[dataset.Key]dataset.Rating) error {
	r.clear()
	return r.Update(users, items, ratings)
}

// Update merges new users, items and ratings into the existing state. User
// and item feature vectors overwrite earlier vectors for the same ID. Every
// rating must reference a user and item that are either already known or
// part of this call; otherwise the whole update is rejected before any state
// is mutated.
func (r *PredictRecommender) Update(users, items map[string][]float32, ratings map[dataset.Key]dataset.Rating) error {
	// Validate rating preconditions against the union of known and incoming
	// IDs so a failed update leaves the state untouched.
	for key := range ratings {
		if _, exist := r.users[key.UserId]; !exist {
			if _, incoming := users[key.UserId]; !incoming {
				return errors.NotValidf("rating (%v, %v): unknown user", key.UserId, key.ItemId)
			}
		}
		if _, exist := r.items[key.ItemId]; !exist {
			if _, incoming := items[key.ItemId]; !incoming {
				return errors.NotValidf("rating (%v, %v): unknown item", key.UserId, key.ItemId)
			}
		}
	}
	for userId, features := range users {
		r.users[userId] = features
	}
	for itemId, features := range items {
		if _, exist := r.items[itemId]; !exist {
			r.itemOrder = append(r.itemOrder, itemId)
		}
		r.items[itemId] = features
	}
	for key, rating := range ratings {
		r.contexts[key] = append(r.contexts[key], rating.Context)
		r.ratedItems(key.UserId).Add(key.ItemId)
		r.ratingUsers(key.ItemId).Add(key.UserId)
		r.ratings.Set(key.UserId, key.ItemId, rating.Value)
	}
	return r.algorithm.Fit()
}

// Recommend returns the top n unrated items per user. Candidate items are
// scored with a single batched Predict call regardless of the number of
// users. The returned items are sorted by descending predicted rating, ties
// broken by item registration order. A user with fewer than n unrated items
// fails the whole call with a bad-request error.
func (r *PredictRecommender) Recommend(contexts []UserContext, n int) ([][]string, [][]float32, error) {
	if n <= 0 {
		return nil, nil, errors.NotValidf("number of recommendations %d", n)
	}
	// Build the flattened prediction request over all unrated items of all
	// users, preserving the caller's user order.
	requests := make([]Request, 0)
	candidates := make([][]string, len(contexts))
	for i, ctx := range contexts {
		rated := r.ratedItems(ctx.UserId)
		itemIds := make([]string, 0, len(r.itemOrder))
		for _, itemId := range r.itemOrder {
			if !rated.Contains(itemId) {
				itemIds = append(itemIds, itemId)
			}
		}
		if len(itemIds) < n {
			return nil, nil, errors.BadRequestf("user %q has %d unrated items, %d recommendations requested",
				ctx.UserId, len(itemIds), n)
		}
		candidates[i] = itemIds
		for _, itemId := range itemIds {
			requests = append(requests, Request{UserId: ctx.UserId, ItemId: itemId, Context: ctx.Context})
		}
	}
	predictions, err := r.algorithm.Predict(requests)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	if len(predictions) != len(requests) {
		return nil, nil, errors.Errorf("predictor returned %d predictions for %d requests",
			len(predictions), len(requests))
	}
	// Split the flat prediction array back into per-user segments and pick
	// the top n of each.
	recs := make([][]string, len(contexts))
	scores := make([][]float32, len(contexts))
	offset := 0
	for i := range contexts {
		segment := predictions[offset : offset+len(candidates[i])]
		offset += len(candidates[i])
		recs[i] = make([]string, n)
		scores[i] = make([]float32, n)
		for j, index := range base.TopKIndices(segment, n) {
			recs[i][j] = candidates[i][index]
			scores[i][j] = segment[index]
		}
	}
	return recs, scores, nil
}

// ContextHistory returns the ordered contexts in which the pair was rated
// across all updates. Pairs that were never rated yield an empty history.
func (r *PredictRecommender) ContextHistory(userId, itemId string) [][]float32 {
	return r.contexts[dataset.Key{UserId: userId, ItemId: itemId}]
}

// RatingMatrix exposes the underlying rating store.
func (r *PredictRecommender) RatingMatrix() *matrix.RatingMatrix {
	return r.ratings
}

// ratedItems returns the set of item IDs rated by the user, inserting an
// empty set for users seen for the first time.
func (r *PredictRecommender) ratedItems(userId string) mapset.Set[string] {
	if s, exist := r.userItems[userId]; exist {
		return s
	}
	s := mapset.NewThreadUnsafeSet[string]()
	r.userItems[userId] = s
	return s
}

// ratingUsers returns the set of user IDs who rated the item, inserting an
// empty set for items seen for the first time.
func (r *PredictRecommender) ratingUsers(itemId string) mapset.Set[string] {
	if s, exist := r.itemUsers[itemId]; exist {
		return s
	}
	s := mapset.NewThreadUnsafeSet[string]()
	r.itemUsers[itemId] = s
	return s
}
