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
	"math/rand"
	"sort"

	"github.com/juju/errors"
)

// SplitRatings partitions ratings into two disjoint maps where the first
// holds the given fraction of the ratings and the second holds the rest.
// Keys are visited in sorted order so the split is deterministic; when
// shuffle is true they are permuted first with the given seed.
func SplitRatings(ratings map[Key]Rating, fraction float64, shuffle bool, seed int64) (map[Key]Rating, map[Key]Rating, error) {
	if fraction < 0 || fraction > 1 {
		return nil, nil, errors.NotValidf("fraction %v", fraction)
	}
	keys := make([]Key, 0, len(ratings))
	for key := range ratings {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].UserId != keys[j].UserId {
			return keys[i].UserId < keys[j].UserId
		}
		return keys[i].ItemId < keys[j].ItemId
	})
	if shuffle {
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(keys), func(i, j int) {
			keys[i], keys[j] = keys[j], keys[i]
		})
	}
	splitAt := int(float64(len(keys)) * fraction)
	first := make(map[Key]Rating, splitAt)
	second := make(map[Key]Rating, len(keys)-splitAt)
	for i, key := range keys {
		if i < splitAt {
			first[key] = ratings[key]
		} else {
			second[key] = ratings[key]
		}
	}
	return first, second, nil
}
