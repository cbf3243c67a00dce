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

package main

import (
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recbench-io/recbench/base/log"
	"github.com/recbench-io/recbench/config"
	"github.com/recbench-io/recbench/dataset"
	"github.com/recbench-io/recbench/eval"
	"github.com/recbench-io/recbench/recommender"
)

var rootCmd = &cobra.Command{
	Use:   "recbench",
	Short: "recbench: simulation and evaluation toolkit for recommender algorithms",
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate the KNN recommender on a built-in dataset",
	Long: "Evaluate the KNN recommender on a built-in dataset: hold out a test " +
		"split, fit on half of the training ratings, measure RMSE, feed the " +
		"second half through an incremental update and measure RMSE again.",
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)
		configPath, _ := cmd.PersistentFlags().GetString("config")
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}
		if err = runEval(conf); err != nil {
			log.Logger().Fatal("evaluation failed", zap.Error(err))
		}
	},
}

func runEval(conf *config.Config) error {
	bar := progressbar.Default(6, "evaluate "+conf.Dataset)
	// Load the dataset and hold out the test ratings.
	data, err := dataset.LoadBuiltIn(conf.Dataset)
	if err != nil {
		return err
	}
	log.Logger().Info("loaded dataset",
		zap.String("dataset", conf.Dataset),
		zap.Int("users", len(data.Users)),
		zap.Int("items", len(data.Items)),
		zap.Int("ratings", data.Count()),
		zap.Float64("mean", data.Mean()),
		zap.Float64("std_dev", data.StdDev()))
	train, test, err := dataset.SplitRatings(data.Ratings, 1-conf.TestRatio, true, conf.Seed)
	if err != nil {
		return err
	}
	firstHalf, secondHalf, err := dataset.SplitRatings(train, 0.5, false, conf.Seed)
	if err != nil {
		return err
	}
	_ = bar.Add(1)
	// Fit on the first half of the training ratings.
	knn, err := recommender.NewKNN(recommender.KNNConfig{
		Shrinkage:        conf.KNN.Shrinkage,
		NeighborhoodSize: conf.KNN.NeighborhoodSize,
		UserBased:        conf.KNN.UserBased,
		UseContent:       conf.KNN.UseContent,
		UseMeans:         conf.KNN.UseMeans,
	})
	if err != nil {
		return err
	}
	if err = knn.Reset(data.Users, data.Items, firstHalf); err != nil {
		return err
	}
	_ = bar.Add(1)
	rmse1, err := eval.RMSE(knn, test)
	if err != nil {
		return err
	}
	mae1, err := eval.MAE(knn, test)
	if err != nil {
		return err
	}
	_ = bar.Add(1)
	log.Logger().Info("evaluated on half the training ratings",
		zap.Int("train_ratings", len(firstHalf)),
		zap.Float32("rmse", rmse1),
		zap.Float32("mae", mae1))
	// Feed the second half through an incremental update and re-evaluate.
	if err = knn.Update(nil, nil, secondHalf); err != nil {
		return err
	}
	_ = bar.Add(1)
	rmse2, err := eval.RMSE(knn, test)
	if err != nil {
		return err
	}
	mae2, err := eval.MAE(knn, test)
	if err != nil {
		return err
	}
	_ = bar.Add(2)
	log.Logger().Info("evaluated on all training ratings",
		zap.Int("train_ratings", len(train)),
		zap.Float32("rmse", rmse2),
		zap.Float32("mae", mae2),
		zap.Float32("rmse_improvement", rmse1-rmse2))
	return nil
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.PersistentFlags().String("config", "", "path of the experiment configuration file")
	evalCmd.PersistentFlags().Bool("debug", false, "use debug log mode")
	log.AddFlags(evalCmd.PersistentFlags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
