package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"cancerpredict/internal/database"
	"cancerpredict/internal/models"
)

// DateLayout is how prediction timestamps are stored.
const DateLayout = "2006-01-02 15:04:05"

type HistoryService struct {
	db *database.DB
}

func NewHistoryService(db *database.DB) *HistoryService {
	return &HistoryService{db: db}
}

func (s *HistoryService) Append(ctx context.Context, rec models.PredictionRecord) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO predictions (user, date, features, prediction, probability) VALUES (?, ?, ?, ?, ?)",
		rec.User, rec.Date, FormatFeatures(rec.Features), rec.Prediction, rec.Probability,
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

// ListForUser returns the user's predictions in the order they were saved.
func (s *HistoryService) ListForUser(ctx context.Context, user string) ([]models.PredictionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user, date, features, prediction, probability FROM predictions WHERE user = ? ORDER BY rowid",
		user,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var records []models.PredictionRecord
	for rows.Next() {
		var rec models.PredictionRecord
		var features string
		if err := rows.Scan(&rec.User, &rec.Date, &features, &rec.Prediction, &rec.Probability); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		if rec.Features, err = ParseFeatures(features); err != nil {
			return nil, fmt.Errorf("failed to parse stored features: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}
	return records, nil
}

// ExportCSV writes the user's history with the same columns the history
// table shows.
func (s *HistoryService) ExportCSV(ctx context.Context, user string, w io.Writer) error {
	records, err := s.ListForUser(ctx, user)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"user", "date", "features", "prediction", "probability"}); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.User,
			rec.Date,
			FormatFeatures(rec.Features),
			rec.Prediction,
			strconv.FormatFloat(rec.Probability, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatFeatures renders a feature vector as "[v1, v2, ...]", writing each
// value the way Python prints a float ("0.0", "12.5", "1e-05") so rows read
// the same whichever program stored them. Values parse back unchanged.
func FormatFeatures(features []float64) string {
	parts := make([]string, len(features))
	for i, v := range features {
		parts[i] = formatFeature(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatFeature(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ParseFeatures is the inverse of FormatFeatures.
func ParseFeatures(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("features %q are not a bracketed list", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return []float64{}, nil
	}

	parts := strings.Split(body, ",")
	features := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i+1, err)
		}
		features[i] = v
	}
	return features, nil
}
