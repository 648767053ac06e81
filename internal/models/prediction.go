package models

// Labels produced by the classifier.
const (
	LabelBenign    = 0
	LabelMalignant = 1
)

// PredictionRecord is a row of the prediction history. Features and
// Prediction keep the textual form they are stored in.
type PredictionRecord struct {
	User        string    `json:"user"`
	Date        string    `json:"date"`
	Features    []float64 `json:"features"`
	Prediction  string    `json:"prediction"`
	Probability float64   `json:"probability"`
}

// Verdict is the outcome of a single-record prediction as shown to the user.
type Verdict struct {
	Label int
	// Probability is the positive (malignant) class probability.
	Probability float64
}

func (v Verdict) Malignant() bool {
	return v.Label == LabelMalignant
}

// Confidence is the probability of the predicted class.
func (v Verdict) Confidence() float64 {
	if v.Malignant() {
		return v.Probability
	}
	return 1 - v.Probability
}
