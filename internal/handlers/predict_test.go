package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"cancerpredict/internal/auth"
	"cancerpredict/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestParseFeatures(t *testing.T) {
	r := formRequest(url.Values{
		"feature_1": {"17.99"},
		"feature_2": {" 10.38 "},
		"feature_4": {""},
	})

	features, err := parseFeatures(r, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{17.99, 10.38, 0, 0}, features)
}

func TestParseFeatures_Invalid(t *testing.T) {
	r := formRequest(url.Values{"feature_2": {"1,5"}})

	_, err := parseFeatures(r, 3)
	require.Error(t, err)
	assert.Equal(t, "feature 2 must be a number", err.Error())
}

func TestParseFeatures_NonFinite(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "-Inf", "+infinity", "1e400"} {
		r := formRequest(url.Values{"feature_1": {"1"}, "feature_2": {raw}})

		_, err := parseFeatures(r, 2)
		require.Error(t, err, raw)
		assert.Equal(t, "feature 2 must be a number", err.Error())
	}
}

func TestNewDashboardView(t *testing.T) {
	session := auth.Session{Username: "alice", Authenticated: true, Origin: auth.OriginLogin}
	history := []models.PredictionRecord{{User: "alice", Prediction: "1"}}

	view := newDashboardView(session, []string{"mean radius", "mean texture", "mean perimeter"}, []float64{1.5, 2}, history)

	require.Len(t, view.Features, 3)
	assert.Equal(t, FeatureInput{Index: 1, Name: "mean radius", Value: 1.5}, view.Features[0])
	assert.Equal(t, FeatureInput{Index: 2, Name: "mean texture", Value: 2}, view.Features[1])
	assert.Equal(t, FeatureInput{Index: 3, Name: "mean perimeter"}, view.Features[2])
	assert.Equal(t, session, view.Session)
	assert.Equal(t, history, view.History)
	assert.Nil(t, view.Verdict)
	assert.Nil(t, view.Batch)
}
