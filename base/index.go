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

// Index manages the map between external IDs and dense indices. An external ID
// is a user ID or item ID chosen by the caller. The dense index is the internal
// row or column position optimized for faster parameter access and less memory
// usage. Indices are assigned in registration order and never reused or
// reordered.
type Index struct {
	Numbers map[string]int32 // external ID -> dense index
	Names   []string         // dense index -> external ID
}

// NotId represents an ID that doesn't exist.
const NotId = int32(-1)

// NewIndex creates an Index.
func NewIndex() *Index {
	idx := new(Index)
	idx.Numbers = make(map[string]int32)
	idx.Names = make([]string, 0)
	return idx
}

// Len returns the number of indexed names.
func (idx *Index) Len() int32 {
	if idx == nil {
		return 0
	}
	return int32(len(idx.Names))
}

// Add adds a new ID to the index. Adding an existing ID is a no-op.
func (idx *Index) Add(name string) {
	if _, exist := idx.Numbers[name]; !exist {
		idx.Numbers[name] = int32(len(idx.Names))
		idx.Names = append(idx.Names, name)
	}
}

// ToNumber converts an external ID to a dense index.
func (idx *Index) ToNumber(name string) int32 {
	if idx == nil {
		return NotId
	}
	if denseId, exist := idx.Numbers[name]; exist {
		return denseId
	}
	return NotId
}

// ToName converts a dense index to an external ID.
func (idx *Index) ToName(index int32) string {
	return idx.Names[index]
}

// GetNames returns all names in index order.
func (idx *Index) GetNames() []string {
	return idx.Names
}
