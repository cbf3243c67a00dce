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
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Key identifies a rating by the user making it and the item being rated.
type Key struct {
	UserId string
	ItemId string
}

// Rating is a rating value together with the context vector describing the
// circumstances in which the rating was made.
type Rating struct {
	Value   float32
	Context []float32
}

// Dataset bundles users, items and ratings. Users and items map external IDs
// to feature vectors, which may be empty.
type Dataset struct {
	Users   map[string][]float32
	Items   map[string][]float32
	Ratings map[Key]Rating
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{
		Users:   make(map[string][]float32),
		Items:   make(map[string][]float32),
		Ratings: make(map[Key]Rating),
	}
}

// Count returns the number of ratings.
func (d *Dataset) Count() int {
	return len(d.Ratings)
}

func (d *Dataset) values() []float64 {
	return lo.Map(lo.Values(d.Ratings), func(r Rating, _ int) float64 {
		return float64(r.Value)
	})
}

// Mean returns the mean of all rating values.
func (d *Dataset) Mean() float64 {
	return stat.Mean(d.values(), nil)
}

// StdDev returns the standard deviation of all rating values.
func (d *Dataset) StdDev() float64 {
	return stat.StdDev(d.values(), nil)
}
