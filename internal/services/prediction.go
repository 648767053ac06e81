package services

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"cancerpredict/internal/auth"
	"cancerpredict/internal/classifier"
	"cancerpredict/internal/metrics"
	"cancerpredict/internal/models"
)

var ErrNotAuthenticated = errors.New("prediction requires an authenticated session")

// PredictionService runs the classifier for a session and records
// single-record predictions in the history. Batch predictions are returned
// but never recorded.
type PredictionService struct {
	engine  *classifier.Engine
	history *HistoryService
	now     func() time.Time
}

func NewPredictionService(engine *classifier.Engine, history *HistoryService) *PredictionService {
	return &PredictionService{
		engine:  engine,
		history: history,
		now:     time.Now,
	}
}

func (s *PredictionService) NumFeatures() int {
	return s.engine.NumFeatures()
}

func (s *PredictionService) FeatureNames() []string {
	return s.engine.FeatureNames()
}

func (s *PredictionService) PredictOne(ctx context.Context, session auth.Session, features []float64) (models.Verdict, error) {
	if !session.Authenticated {
		return models.Verdict{}, ErrNotAuthenticated
	}

	start := time.Now()
	p, err := s.engine.PredictOne(features)
	if err != nil {
		return models.Verdict{}, err
	}
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	rec := models.PredictionRecord{
		User:        session.Username,
		Date:        s.now().Format(DateLayout),
		Features:    append([]float64(nil), features...),
		Prediction:  strconv.Itoa(p.Label),
		Probability: p.Probability,
	}
	if err := s.history.Append(ctx, rec); err != nil {
		return models.Verdict{}, err
	}

	metrics.PredictionsTotal.WithLabelValues(strconv.Itoa(p.Label)).Inc()
	return models.Verdict{Label: p.Label, Probability: p.Probability}, nil
}

// PredictCSV labels every row of a feature CSV.
func (s *PredictionService) PredictCSV(r io.Reader) ([]int, error) {
	rows, err := ReadFeatureCSV(r, s.engine.NumFeatures())
	if err != nil {
		return nil, err
	}
	labels, err := s.engine.PredictBatch(rows)
	if err != nil {
		return nil, err
	}
	metrics.BatchRowsTotal.Add(float64(len(labels)))
	return labels, nil
}
