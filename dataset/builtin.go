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
	"archive/zip"
	"bufio"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/recbench-io/recbench/base/log"
	"go.uber.org/zap"
)

type builtInDataSet struct {
	url  string
	path string
	sep  string
}

var builtInDataSets = map[string]builtInDataSet{
	"ml-100k": {
		url:  "https://cdn.sine-x.com/datasets/movielens/ml-100k.zip",
		path: "ml-100k/u.data",
		sep:  "\t",
	},
	"ml-1m": {
		url:  "https://cdn.sine-x.com/datasets/movielens/ml-1m.zip",
		path: "ml-1m/ratings.dat",
		sep:  "::",
	},
	"ml-10m": {
		url:  "https://cdn.sine-x.com/datasets/movielens/ml-10m.zip",
		path: "ml-10M100K/ratings.dat",
		sep:  "::",
	},
	"ml-20m": {
		url:  "https://cdn.sine-x.com/datasets/movielens/ml-20m.zip",
		path: "ml-20m/ratings.csv",
		sep:  ",",
	},
}

// The data directories
var (
	downloadDir string
	dataSetDir  string
)

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Logger().Fatal("failed to locate home directory", zap.Error(err))
	}
	downloadDir = filepath.Join(home, ".recbench", "download")
	dataSetDir = filepath.Join(home, ".recbench", "datasets")
}

// LoadBuiltIn loads a built-in dataset, downloading and unpacking it on first
// use. Supported names:
//
//	ml-100k - MovieLens 100K
//	ml-1m   - MovieLens 1M
//	ml-10m  - MovieLens 10M
//	ml-20m  - MovieLens 20M
//
// The rating files carry no user or item features, so every user and item is
// registered with an empty feature vector and every rating with an empty
// context.
func LoadBuiltIn(name string) (*Dataset, error) {
	ds, exist := builtInDataSets[name]
	if !exist {
		return nil, errors.NotFoundf("built-in dataset %q", name)
	}
	dataFileName := filepath.Join(dataSetDir, ds.path)
	if _, err := os.Stat(dataFileName); os.IsNotExist(err) {
		zipFileName, err := downloadFromUrl(ds.url, downloadDir)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if _, err := unzip(zipFileName, dataSetDir); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return LoadCSV(dataFileName, ds.sep, false)
}

// LoadCSV loads a dataset from a CSV file. The file should be:
//
//	[optional header]
//	<userId 1> <sep> <itemId 1> <sep> <rating 1> <sep> <extras>
//	<userId 2> <sep> <itemId 2> <sep> <rating 2> <sep> <extras>
//	...
//
// For example, the `u.data` from MovieLens 100K is:
//
//	196\t242\t3\t881250949
//	186\t302\t3\t891717742
//	22\t377\t1\t878887116
func LoadCSV(fileName, sep string, hasHeader bool) (*Dataset, error) {
	dataSet := New()
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Ignore header
		if hasHeader {
			hasHeader = false
			continue
		}
		fields := strings.Split(line, sep)
		if len(fields) < 3 {
			return nil, errors.NotValidf("line %q", line)
		}
		userId, itemId := fields[0], fields[1]
		value, err := parseFloat32(fields[2])
		if err != nil {
			return nil, errors.Trace(err)
		}
		if _, exist := dataSet.Users[userId]; !exist {
			dataSet.Users[userId] = []float32{}
		}
		if _, exist := dataSet.Items[itemId]; !exist {
			dataSet.Items[itemId] = []float32{}
		}
		dataSet.Ratings[Key{UserId: userId, ItemId: itemId}] = Rating{Value: value, Context: []float32{}}
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return dataSet, nil
}

func parseFloat32(s string) (float32, error) {
	value, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, errors.Trace(err)
	}
	return float32(value), nil
}

// Download file from URL.
func downloadFromUrl(src, dst string) (string, error) {
	log.Logger().Info("download dataset", zap.String("url", src))
	// Extract file name
	tokens := strings.Split(src, "/")
	fileName := filepath.Join(dst, tokens[len(tokens)-1])
	// Create file
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return fileName, errors.Trace(err)
	}
	output, err := os.Create(fileName)
	if err != nil {
		return fileName, errors.Trace(err)
	}
	defer output.Close()
	// Download file
	response, err := http.Get(src)
	if err != nil {
		return fileName, errors.Trace(err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fileName, errors.Errorf("download %s: %s", src, response.Status)
	}
	// Save file
	if _, err = io.Copy(output, response.Body); err != nil {
		return fileName, errors.Trace(err)
	}
	return fileName, nil
}

// Unzip zip file.
func unzip(src, dst string) ([]string, error) {
	var fileNames []string
	// Open zip file
	r, err := zip.OpenReader(src)
	if err != nil {
		return fileNames, errors.Trace(err)
	}
	defer r.Close()
	// Extract files
	for _, f := range r.File {
		// Open file
		rc, err := f.Open()
		if err != nil {
			return fileNames, errors.Trace(err)
		}
		// Store filename/path for returning and using later on
		filePath := filepath.Join(dst, f.Name)
		// Check for ZipSlip. More Info: http://bit.ly/2MsjAWE
		if !strings.HasPrefix(filePath, filepath.Clean(dst)+string(os.PathSeparator)) {
			return fileNames, errors.Errorf("%s: illegal file path", filePath)
		}
		// Add filename
		fileNames = append(fileNames, filePath)
		if f.FileInfo().IsDir() {
			// Create folder
			if err = os.MkdirAll(filePath, os.ModePerm); err != nil {
				return fileNames, errors.Trace(err)
			}
		} else {
			// Create all folders
			if err = os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
				return fileNames, errors.Trace(err)
			}
			// Create file
			outFile, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
			if err != nil {
				return fileNames, errors.Trace(err)
			}
			// Save file
			_, err = io.Copy(outFile, rc)
			// Close the file without defer to close before next iteration of loop
			outFile.Close()
			if err != nil {
				return fileNames, errors.Trace(err)
			}
		}
		// Close file
		rc.Close()
	}
	return fileNames, nil
}
