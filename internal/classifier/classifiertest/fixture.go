// Package classifiertest provides a small, hand-built classifier for tests.
//
// Every feature is scaled as (x - 10) / 2. Three trees vote:
//
//   - split on feature 0 at 0: left [9 1], right [1 9]
//   - split on feature 1 at 0.5: left [8 2], right [2 8]
//   - a single leaf [6 4]
//
// So an all-zero vector gets a malignant probability of 0.7/3 and an
// all-twenty vector 2.1/3.
package classifiertest

import (
	"encoding/json"
	"os"
	"path/filepath"

	"cancerpredict/internal/classifier"
)

const NumFeatures = 30

const (
	ZeroProbability   = (0.1 + 0.2 + 0.4) / 3
	TwentyProbability = (0.9 + 0.8 + 0.4) / 3
)

func Scaler() *classifier.Scaler {
	s := &classifier.Scaler{
		Mean:  make([]float64, NumFeatures),
		Scale: make([]float64, NumFeatures),
	}
	for i := range s.Mean {
		s.Mean[i] = 10
		s.Scale[i] = 2
	}
	return s
}

func Forest() *classifier.Forest {
	return &classifier.Forest{
		NFeatures: NumFeatures,
		Classes:   []int{0, 1},
		Trees: []*classifier.Tree{
			{
				ChildrenLeft:  []int{1, -1, -1},
				ChildrenRight: []int{2, -1, -1},
				Feature:       []int{0, -2, -2},
				Threshold:     []float64{0, -2, -2},
				Value:         [][]float64{{10, 10}, {9, 1}, {1, 9}},
			},
			{
				ChildrenLeft:  []int{1, -1, -1},
				ChildrenRight: []int{2, -1, -1},
				Feature:       []int{1, -2, -2},
				Threshold:     []float64{0.5, -2, -2},
				Value:         [][]float64{{10, 10}, {8, 2}, {2, 8}},
			},
			{
				ChildrenLeft:  []int{-1},
				ChildrenRight: []int{-1},
				Feature:       []int{-2},
				Threshold:     []float64{-2},
				Value:         [][]float64{{6, 4}},
			},
		},
	}
}

// Engine returns the fixture engine and panics if it is invalid.
func Engine() *classifier.Engine {
	e, err := classifier.New(Scaler(), Forest())
	if err != nil {
		panic(err)
	}
	return e
}

// Vector returns a feature vector with every value set to v.
func Vector(v float64) []float64 {
	x := make([]float64, NumFeatures)
	for i := range x {
		x[i] = v
	}
	return x
}

// WriteArtifacts stores the fixture as JSON files in dir.
func WriteArtifacts(dir string) (scalerPath, modelPath string, err error) {
	scalerPath = filepath.Join(dir, "scaler.json")
	modelPath = filepath.Join(dir, "random_forest_model.json")
	if err := writeJSON(scalerPath, Scaler()); err != nil {
		return "", "", err
	}
	if err := writeJSON(modelPath, Forest()); err != nil {
		return "", "", err
	}
	return scalerPath, modelPath, nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
