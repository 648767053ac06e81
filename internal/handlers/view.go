package handlers

import (
	"cancerpredict/internal/auth"
	"cancerpredict/internal/models"
)

type Alert struct {
	Type    string
	Message string
}

type FeatureInput struct {
	Index int
	Name  string
	Value float64
}

type BatchResult struct {
	Labels []int
}

// DashboardView is everything the dashboard shows. It is rebuilt from the
// session and a fresh history read on every request.
type DashboardView struct {
	Title        string
	Session      auth.Session
	Features     []FeatureInput
	Verdict      *models.Verdict
	VerdictAlert *Alert
	Batch        *BatchResult
	BatchAlert   *Alert
	History      []models.PredictionRecord
}

// LoginView backs the login page.
type LoginView struct {
	Title    string
	Session  auth.Session
	Username string
	Error    string
}

func newDashboardView(session auth.Session, names []string, values []float64, history []models.PredictionRecord) *DashboardView {
	inputs := make([]FeatureInput, len(names))
	for i, name := range names {
		inputs[i] = FeatureInput{Index: i + 1, Name: name}
		if i < len(values) {
			inputs[i].Value = values[i]
		}
	}
	return &DashboardView{
		Title:    "Prediction",
		Session:  session,
		Features: inputs,
		History:  history,
	}
}
