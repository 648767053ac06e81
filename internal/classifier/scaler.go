package classifier

import "fmt"

// Scaler is a fitted standardisation transform: (x - mean) / scale.
type Scaler struct {
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	FeatureNames []string  `json:"feature_names,omitempty"`
}

func (s *Scaler) NumFeatures() int {
	return len(s.Mean)
}

func (s *Scaler) validate() error {
	if len(s.Mean) == 0 {
		return fmt.Errorf("scaler has no features")
	}
	if len(s.Scale) != len(s.Mean) {
		return fmt.Errorf("scaler has %d means but %d scales", len(s.Mean), len(s.Scale))
	}
	if len(s.FeatureNames) != 0 && len(s.FeatureNames) != len(s.Mean) {
		return fmt.Errorf("scaler has %d features but %d feature names", len(s.Mean), len(s.FeatureNames))
	}
	for i, v := range s.Scale {
		if v == 0 {
			return fmt.Errorf("scaler feature %d has zero scale", i)
		}
	}
	return nil
}

// Transform returns the scaled copy of x.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("%w: scaler expects %d features, got %d", ErrDimensionMismatch, len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}
