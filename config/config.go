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

// Package config loads experiment configuration.
package config

import (
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config holds the settings of an evaluation experiment.
type Config struct {
	// Dataset is the name of the built-in dataset to evaluate on.
	Dataset string `mapstructure:"dataset"`
	// TestRatio is the fraction of ratings held out for testing.
	TestRatio float64 `mapstructure:"test_ratio"`
	// Seed drives the shuffled train/test split.
	Seed int64 `mapstructure:"seed"`
	// KNN holds the hyperparameters of the KNN recommender.
	KNN KNNConfig `mapstructure:"knn"`
}

// KNNConfig mirrors the construction-time parameters of the KNN recommender.
type KNNConfig struct {
	Shrinkage        float32 `mapstructure:"shrinkage"`
	NeighborhoodSize int     `mapstructure:"neighborhood_size"`
	UserBased        bool    `mapstructure:"user_based"`
	UseContent       bool    `mapstructure:"use_content"`
	UseMeans         bool    `mapstructure:"use_means"`
}

func setDefault() {
	viper.SetDefault("dataset", "ml-100k")
	viper.SetDefault("test_ratio", 0.1)
	viper.SetDefault("seed", 0)
	viper.SetDefault("knn.shrinkage", 0)
	viper.SetDefault("knn.neighborhood_size", 40)
	viper.SetDefault("knn.user_based", true)
	viper.SetDefault("knn.use_content", true)
	viper.SetDefault("knn.use_means", true)
}

// LoadConfig loads the configuration from a file, falling back to defaults
// for missing settings. An empty path returns the default configuration.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if conf.TestRatio <= 0 || conf.TestRatio >= 1 {
		return nil, errors.NotValidf("test_ratio %v", conf.TestRatio)
	}
	return &conf, nil
}
