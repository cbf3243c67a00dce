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

// Package eval measures rating-prediction accuracy on held-out ratings.
package eval

import (
	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"github.com/recbench-io/recbench/dataset"
	"github.com/recbench-io/recbench/recommender"
)

// Evaluator measures the accuracy of a predictor on a test set of ratings.
type Evaluator func(p recommender.Predictor, test map[dataset.Key]dataset.Rating) (float32, error)

// requests flattens a test set into one batched prediction request, reusing
// the recorded rating context of each pair, and returns the target values in
// matching order.
func requests(test map[dataset.Key]dataset.Rating) ([]recommender.Request, []float32) {
	reqs := make([]recommender.Request, 0, len(test))
	targets := make([]float32, 0, len(test))
	for key, rating := range test {
		reqs = append(reqs, recommender.Request{
			UserId:  key.UserId,
			ItemId:  key.ItemId,
			Context: rating.Context,
		})
		targets = append(targets, rating.Value)
	}
	return reqs, targets
}

// RMSE is the root mean square error of the predictions against the held-out
// rating values.
func RMSE(p recommender.Predictor, test map[dataset.Key]dataset.Rating) (float32, error) {
	reqs, targets := requests(test)
	predictions, err := p.Predict(reqs)
	if err != nil {
		return 0, errors.Trace(err)
	}
	sum := float32(0)
	for i := range predictions {
		sum += (predictions[i] - targets[i]) * (predictions[i] - targets[i])
	}
	if len(predictions) == 0 {
		return 0, nil
	}
	return math32.Sqrt(sum / float32(len(predictions))), nil
}

// MAE is the mean absolute error of the predictions against the held-out
// rating values.
func MAE(p recommender.Predictor, test map[dataset.Key]dataset.Rating) (float32, error) {
	reqs, targets := requests(test)
	predictions, err := p.Predict(reqs)
	if err != nil {
		return 0, errors.Trace(err)
	}
	sum := float32(0)
	for i := range predictions {
		sum += math32.Abs(predictions[i] - targets[i])
	}
	if len(predictions) == 0 {
		return 0, nil
	}
	return sum / float32(len(predictions)), nil
}
