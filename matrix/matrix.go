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

// Package matrix provides a sparse rating store addressed by external user
// and item IDs instead of absolute indices.
package matrix

import (
	"github.com/juju/errors"
	"github.com/recbench-io/recbench/base"
)

// RatingMatrix is a sparse matrix of ratings. External IDs passed by the
// caller can be arbitrary strings, so each axis keeps a bidirectional map
// between external IDs and the dense internal row/column indices of the
// matrix. Internal indices are assigned in first-seen order and never reused
// or reordered, so the meaning of a row or column is stable for the lifetime
// of the matrix while its dimensions grow as new IDs arrive.
//
// Mutation is in-place and a RatingMatrix is not safe for concurrent use.
type RatingMatrix struct {
	userIndex *base.Index
	itemIndex *base.Index
	rows      []map[int32]float32 // user index -> item index -> rating
}

// New creates an empty RatingMatrix.
func New() *RatingMatrix {
	return &RatingMatrix{
		userIndex: base.NewIndex(),
		itemIndex: base.NewIndex(),
		rows:      make([]map[int32]float32, 0),
	}
}

// Users returns the number of user rows.
func (m *RatingMatrix) Users() int {
	return int(m.userIndex.Len())
}

// Items returns the number of item columns.
func (m *RatingMatrix) Items() int {
	return int(m.itemIndex.Len())
}

// Set writes the rating of an item by a user, overwriting any previous value
// for the pair. Unseen user or item IDs are registered on the fly: the ID is
// assigned the next internal index and the matrix grows by one row or column
// along that axis without re-indexing existing entries.
func (m *RatingMatrix) Set(userId, itemId string, value float32) {
	m.userIndex.Add(userId)
	m.itemIndex.Add(itemId)
	for int(m.userIndex.Len()) > len(m.rows) {
		m.rows = append(m.rows, make(map[int32]float32))
	}
	userIndex := m.userIndex.ToNumber(userId)
	itemIndex := m.itemIndex.ToNumber(itemId)
	m.rows[userIndex][itemIndex] = value
}

// Get reads the rating of an item by a user. Pairs without a rating read as
// zero. Reading an unregistered user or item ID fails with a not-found error.
func (m *RatingMatrix) Get(userId, itemId string) (float32, error) {
	userIndex := m.userIndex.ToNumber(userId)
	if userIndex == base.NotId {
		return 0, errors.NotFoundf("user %q", userId)
	}
	itemIndex := m.itemIndex.ToNumber(itemId)
	if itemIndex == base.NotId {
		return 0, errors.NotFoundf("item %q", itemId)
	}
	return m.rows[userIndex][itemIndex], nil
}

// UserRow returns the whole row of a user: the ratings of every registered
// item in item ordering, with zeros for unrated items. This is the only
// supported slice along the item axis, bounded slices are not provided.
func (m *RatingMatrix) UserRow(userId string) ([]float32, error) {
	userIndex := m.userIndex.ToNumber(userId)
	if userIndex == base.NotId {
		return nil, errors.NotFoundf("user %q", userId)
	}
	row := make([]float32, m.itemIndex.Len())
	for itemIndex, value := range m.rows[userIndex] {
		row[itemIndex] = value
	}
	return row, nil
}

// ItemColumn returns the whole column of an item: the ratings by every
// registered user in user ordering, with zeros for users who did not rate it.
// This is the only supported slice along the user axis.
func (m *RatingMatrix) ItemColumn(itemId string) ([]float32, error) {
	itemIndex := m.itemIndex.ToNumber(itemId)
	if itemIndex == base.NotId {
		return nil, errors.NotFoundf("item %q", itemId)
	}
	column := make([]float32, m.userIndex.Len())
	for userIndex, row := range m.rows {
		if value, exist := row[itemIndex]; exist {
			column[userIndex] = value
		}
	}
	return column, nil
}

// UserIndex converts an external user ID to its internal row index, or
// base.NotId if the user has never rated.
func (m *RatingMatrix) UserIndex(userId string) int32 {
	return m.userIndex.ToNumber(userId)
}

// ItemIndex converts an external item ID to its internal column index, or
// base.NotId if the item has never been rated.
func (m *RatingMatrix) ItemIndex(itemId string) int32 {
	return m.itemIndex.ToNumber(itemId)
}

// UserOrdering returns the external user IDs in internal-index order, i.e.
// UserOrdering()[i] is the ID of the user at row i.
func (m *RatingMatrix) UserOrdering() []string {
	return m.userIndex.GetNames()
}

// ItemOrdering returns the external item IDs in internal-index order, i.e.
// ItemOrdering()[i] is the ID of the item at column i.
func (m *RatingMatrix) ItemOrdering() []string {
	return m.itemIndex.GetNames()
}

// Dense returns the matrix as dense rows over the internal orderings.
func (m *RatingMatrix) Dense() [][]float32 {
	dense := base.NewMatrix32(m.Users(), m.Items())
	for userIndex, row := range m.rows {
		for itemIndex, value := range row {
			dense[userIndex][itemIndex] = value
		}
	}
	return dense
}

// DenseTransposed returns the transposed matrix as dense rows, one per item.
func (m *RatingMatrix) DenseTransposed() [][]float32 {
	dense := base.NewMatrix32(m.Items(), m.Users())
	for userIndex, row := range m.rows {
		for itemIndex, value := range row {
			dense[itemIndex][userIndex] = value
		}
	}
	return dense
}
