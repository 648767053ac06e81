// Package classifier evaluates the exported tumor classifier: a fitted
// standard scaler followed by a random forest over 30 image features.
//
// Both artifacts are JSON files written by the training pipeline. They are
// loaded once and never modified, so an Engine is safe for concurrent use.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Threshold is the positive-class probability at which a tumor is labelled
// malignant.
const Threshold = 0.5

var ErrDimensionMismatch = errors.New("feature dimension mismatch")

// Prediction is the outcome for one feature vector.
type Prediction struct {
	Label       int
	Probability float64
}

type Engine struct {
	scaler   *Scaler
	forest   *Forest
	positive int
}

// New checks that scaler and forest agree with each other.
func New(scaler *Scaler, forest *Forest) (*Engine, error) {
	if err := scaler.validate(); err != nil {
		return nil, fmt.Errorf("invalid scaler: %w", err)
	}
	if err := forest.validate(); err != nil {
		return nil, fmt.Errorf("invalid forest: %w", err)
	}
	if forest.NFeatures != scaler.NumFeatures() {
		return nil, fmt.Errorf("%w: scaler has %d features, forest %d", ErrDimensionMismatch, scaler.NumFeatures(), forest.NFeatures)
	}

	positive := -1
	for i, c := range forest.Classes {
		if c == 1 {
			positive = i
		} else if c != 0 {
			return nil, fmt.Errorf("invalid forest: unexpected class label %d", c)
		}
	}
	if positive < 0 {
		return nil, fmt.Errorf("invalid forest: no positive class")
	}

	return &Engine{scaler: scaler, forest: forest, positive: positive}, nil
}

// Load reads the scaler and forest artifacts from disk.
func Load(scalerPath, forestPath string) (*Engine, error) {
	var scaler Scaler
	if err := readJSON(scalerPath, &scaler); err != nil {
		return nil, fmt.Errorf("failed to load scaler: %w", err)
	}
	var forest Forest
	if err := readJSON(forestPath, &forest); err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	return New(&scaler, &forest)
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (e *Engine) NumFeatures() int {
	return e.scaler.NumFeatures()
}

// FeatureNames returns the training-time feature names, falling back to
// "Feature N" when the scaler did not record them.
func (e *Engine) FeatureNames() []string {
	names := make([]string, e.NumFeatures())
	for i := range names {
		if i < len(e.scaler.FeatureNames) && e.scaler.FeatureNames[i] != "" {
			names[i] = e.scaler.FeatureNames[i]
		} else {
			names[i] = fmt.Sprintf("Feature %d", i+1)
		}
	}
	return names
}

func (e *Engine) PredictOne(features []float64) (Prediction, error) {
	scaled, err := e.scaler.Transform(features)
	if err != nil {
		return Prediction{}, err
	}
	proba, err := e.forest.PredictProba(scaled)
	if err != nil {
		return Prediction{}, err
	}

	p := proba[e.positive]
	label := 0
	if p >= Threshold {
		label = 1
	}
	return Prediction{Label: label, Probability: p}, nil
}

// PredictBatch labels every row. It fails as a whole if any row is
// malformed.
func (e *Engine) PredictBatch(rows [][]float64) ([]int, error) {
	labels := make([]int, 0, len(rows))
	for i, row := range rows {
		p, err := e.PredictOne(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		labels = append(labels, p.Label)
	}
	return labels, nil
}
