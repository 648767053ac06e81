package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"cancerpredict/internal/auth"
	"cancerpredict/internal/classifier"
	"cancerpredict/internal/classifier/classifiertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPredictionService(t *testing.T) (*PredictionService, *HistoryService) {
	t.Helper()
	history, _ := newTestHistory(t)
	svc := NewPredictionService(classifiertest.Engine(), history)
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 14, 5, 9, 0, time.Local) }
	return svc, history
}

func csvWithRows(rows [][]float64) string {
	var b strings.Builder
	header := make([]string, classifiertest.NumFeatures)
	for i := range header {
		header[i] = fmt.Sprintf("f%d", i+1)
	}
	b.WriteString(strings.Join(header, ",") + "\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		b.WriteString(strings.Join(cells, ",") + "\n")
	}
	return b.String()
}

func TestPredictOne_ZerosAppendsHistory(t *testing.T) {
	svc, history := newTestPredictionService(t)
	ctx := context.Background()
	session := auth.Session{Username: "alice", Authenticated: true, Origin: auth.OriginLogin}

	v, err := svc.PredictOne(ctx, session, classifiertest.Vector(0))
	require.NoError(t, err)
	assert.Equal(t, 0, v.Label)
	assert.InDelta(t, classifiertest.ZeroProbability, v.Probability, 1e-12)

	records, err := history.ListForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].User)
	assert.Equal(t, "2026-10-16 14:05:09", records[0].Date)
	assert.Equal(t, classifiertest.Vector(0), records[0].Features)
	assert.Equal(t, "0", records[0].Prediction)
	assert.Equal(t, v.Probability, records[0].Probability)
}

func TestPredictOne_Deterministic(t *testing.T) {
	svc, history := newTestPredictionService(t)
	ctx := context.Background()
	session := auth.Session{Username: "bob", Authenticated: true, Origin: auth.OriginMarker}

	first, err := svc.PredictOne(ctx, session, classifiertest.Vector(20))
	require.NoError(t, err)
	second, err := svc.PredictOne(ctx, session, classifiertest.Vector(20))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, first.Malignant())
	assert.InDelta(t, classifiertest.TwentyProbability, first.Confidence(), 1e-12)

	records, err := history.ListForUser(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestPredictOne_WrongLengthRecordsNothing(t *testing.T) {
	svc, history := newTestPredictionService(t)
	ctx := context.Background()
	session := auth.Session{Username: "alice", Authenticated: true}

	_, err := svc.PredictOne(ctx, session, make([]float64, 5))
	assert.ErrorIs(t, err, classifier.ErrDimensionMismatch)

	records, err := history.ListForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPredictOne_RequiresAuthenticatedSession(t *testing.T) {
	svc, _ := newTestPredictionService(t)

	_, err := svc.PredictOne(context.Background(), auth.Session{}, classifiertest.Vector(0))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestPredictCSV_FiveRowsNoHistory(t *testing.T) {
	svc, history := newTestPredictionService(t)
	ctx := context.Background()

	rows := [][]float64{
		classifiertest.Vector(0),
		classifiertest.Vector(20),
		classifiertest.Vector(1.5),
		classifiertest.Vector(30),
		classifiertest.Vector(0),
	}
	labels, err := svc.PredictCSV(strings.NewReader(csvWithRows(rows)))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 1, 0}, labels)

	var total int
	require.NoError(t, history.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM predictions").Scan(&total))
	assert.Zero(t, total)
}

func TestPredictCSV_Malformed(t *testing.T) {
	svc, _ := newTestPredictionService(t)

	good := csvWithRows([][]float64{classifiertest.Vector(0)})
	wrongCount := good + "1,2,3\n"
	notNumber := strings.Replace(good, "\n0,", "\nabc,", 1)
	notANumber := strings.Replace(good, "\n0,", "\nNaN,", 1)
	infinite := strings.Replace(good, "\n0,", "\n-Inf,", 1)
	headerOnly := csvWithRows(nil)

	for name, body := range map[string]string{
		"wrong column count": wrongCount,
		"non numeric":        notNumber,
		"NaN cell":           notANumber,
		"infinite cell":      infinite,
		"short header":       "a,b,c\n1,2,3\n",
		"empty":              "",
	} {
		labels, err := svc.PredictCSV(strings.NewReader(body))
		assert.ErrorIs(t, err, ErrMalformedCSV, name)
		assert.Nil(t, labels, name)
	}

	labels, err := svc.PredictCSV(strings.NewReader(headerOnly))
	require.NoError(t, err)
	assert.Empty(t, labels)
}
