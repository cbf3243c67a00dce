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
	"os"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "ratings.csv")
	content := "196\t242\t3\t881250949\n" +
		"186\t302\t3\t891717742\n" +
		"22\t377\t1\t878887116\n" +
		"196\t377\t5\t881250950\n"
	require.NoError(t, os.WriteFile(fileName, []byte(content), 0o644))
	data, err := LoadCSV(fileName, "\t", false)
	require.NoError(t, err)
	assert.Len(t, data.Users, 3)
	assert.Len(t, data.Items, 3)
	assert.Equal(t, 4, data.Count())
	assert.Equal(t, float32(3), data.Ratings[Key{UserId: "196", ItemId: "242"}].Value)
	assert.Equal(t, float32(5), data.Ratings[Key{UserId: "196", ItemId: "377"}].Value)
	assert.InDelta(t, 3, data.Mean(), 1e-6)
}

func TestLoadCSVHeader(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "ratings.csv")
	content := "user,item,rating\n1,2,4.5\n"
	require.NoError(t, os.WriteFile(fileName, []byte(content), 0o644))
	data, err := LoadCSV(fileName, ",", true)
	require.NoError(t, err)
	assert.Equal(t, 1, data.Count())
	assert.Equal(t, float32(4.5), data.Ratings[Key{UserId: "1", ItemId: "2"}].Value)
}

func TestLoadBuiltInUnknown(t *testing.T) {
	_, err := LoadBuiltIn("no-such-dataset")
	assert.True(t, errors.IsNotFound(err))
}
