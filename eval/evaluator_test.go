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

package eval

import (
	"testing"

	"github.com/recbench-io/recbench/dataset"
	"github.com/recbench-io/recbench/recommender"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constantPredictor predicts the same rating for every pair.
type constantPredictor struct {
	value float32
}

func (p constantPredictor) Predict(requests []recommender.Request) ([]float32, error) {
	predictions := make([]float32, len(requests))
	for i := range predictions {
		predictions[i] = p.value
	}
	return predictions, nil
}

func TestRMSE(t *testing.T) {
	test := map[dataset.Key]dataset.Rating{
		{UserId: "a", ItemId: "x"}: {Value: 1},
		{UserId: "a", ItemId: "y"}: {Value: 3},
		{UserId: "b", ItemId: "x"}: {Value: 5},
	}
	rmse, err := RMSE(constantPredictor{value: 3}, test)
	require.NoError(t, err)
	// Squared errors are 4, 0 and 4.
	assert.InDelta(t, 1.632993, rmse, 1e-5)
	rmse, err = RMSE(constantPredictor{value: 3}, nil)
	require.NoError(t, err)
	assert.Zero(t, rmse)
}

func TestMAE(t *testing.T) {
	test := map[dataset.Key]dataset.Rating{
		{UserId: "a", ItemId: "x"}: {Value: 1},
		{UserId: "a", ItemId: "y"}: {Value: 3},
		{UserId: "b", ItemId: "x"}: {Value: 5},
	}
	mae, err := MAE(constantPredictor{value: 3}, test)
	require.NoError(t, err)
	assert.InDelta(t, 4.0/3.0, mae, 1e-5)
}
