package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"cancerpredict/internal/auth"
	"cancerpredict/internal/classifier"
	"cancerpredict/internal/middleware"
	"cancerpredict/internal/services"

	"github.com/rs/zerolog"
)

// maxUploadSize bounds batch CSV uploads.
const maxUploadSize = 10 << 20

type PredictHandler struct {
	templates  TemplateExecutor
	prediction *services.PredictionService
	history    *services.HistoryService
	log        zerolog.Logger
}

func NewPredictHandler(templates TemplateExecutor, prediction *services.PredictionService, history *services.HistoryService, log zerolog.Logger) *PredictHandler {
	return &PredictHandler{
		templates:  templates,
		prediction: prediction,
		history:    history,
		log:        log,
	}
}

// Dashboard renders the full page.
func (h *PredictHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r, middleware.GetSession(r), nil)
	if err != nil {
		h.serverError(w, "failed to load history", err)
		return
	}
	h.render(w, "dashboard.html", view)
}

// History renders the history table alone.
func (h *PredictHandler) History(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r, middleware.GetSession(r), nil)
	if err != nil {
		h.serverError(w, "failed to load history", err)
		return
	}
	h.render(w, "history.html", view)
}

func (h *PredictHandler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=prediction-history.csv")
	if err := h.history.ExportCSV(r.Context(), session.Username, w); err != nil {
		h.log.Error().Err(err).Str("user", session.Username).Msg("failed to export history")
	}
}

func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r)

	if err := r.ParseForm(); err != nil {
		h.respondVerdict(w, r, session, nil, &Alert{Type: "error", Message: "Invalid form data"})
		return
	}

	features, err := parseFeatures(r, h.prediction.NumFeatures())
	if err != nil {
		h.respondVerdict(w, r, session, features, &Alert{Type: "error", Message: err.Error()})
		return
	}

	verdict, err := h.prediction.PredictOne(r.Context(), session, features)
	if err != nil {
		if errors.Is(err, classifier.ErrDimensionMismatch) {
			h.respondVerdict(w, r, session, features, &Alert{Type: "error", Message: err.Error()})
			return
		}
		h.serverError(w, "prediction failed", err)
		return
	}

	h.log.Info().
		Str("user", session.Username).
		Int("label", verdict.Label).
		Float64("probability", verdict.Probability).
		Msg("prediction recorded")

	view, err := h.view(r, session, features)
	if err != nil {
		h.serverError(w, "failed to load history", err)
		return
	}
	view.Verdict = &verdict

	if isHTMX(r) {
		w.Header().Set("HX-Trigger", "predicted")
		h.render(w, "verdict.html", view)
		return
	}
	h.render(w, "dashboard.html", view)
}

func (h *PredictHandler) PredictBatch(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondBatch(w, r, session, nil, &Alert{Type: "error", Message: "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	labels, err := h.prediction.PredictCSV(file)
	if err != nil {
		h.log.Warn().Err(err).Str("user", session.Username).Msg("batch prediction failed")
		h.respondBatch(w, r, session, nil, &Alert{Type: "error", Message: "Batch prediction failed: " + err.Error()})
		return
	}

	h.log.Info().Str("user", session.Username).Int("rows", len(labels)).Msg("batch prediction")
	h.respondBatch(w, r, session, &BatchResult{Labels: labels}, nil)
}

func (h *PredictHandler) respondVerdict(w http.ResponseWriter, r *http.Request, session auth.Session, features []float64, alert *Alert) {
	view, err := h.view(r, session, features)
	if err != nil {
		h.serverError(w, "failed to load history", err)
		return
	}
	view.VerdictAlert = alert

	if isHTMX(r) {
		h.render(w, "verdict.html", view)
		return
	}
	h.render(w, "dashboard.html", view)
}

func (h *PredictHandler) respondBatch(w http.ResponseWriter, r *http.Request, session auth.Session, batch *BatchResult, alert *Alert) {
	view, err := h.view(r, session, nil)
	if err != nil {
		h.serverError(w, "failed to load history", err)
		return
	}
	view.Batch = batch
	view.BatchAlert = alert

	if isHTMX(r) {
		h.render(w, "batch.html", view)
		return
	}
	h.render(w, "dashboard.html", view)
}

func (h *PredictHandler) view(r *http.Request, session auth.Session, features []float64) (*DashboardView, error) {
	history, err := h.history.ListForUser(r.Context(), session.Username)
	if err != nil {
		return nil, err
	}
	return newDashboardView(session, h.prediction.FeatureNames(), features, history), nil
}

func (h *PredictHandler) render(w http.ResponseWriter, name string, view *DashboardView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, view); err != nil {
		h.log.Error().Err(err).Str("template", name).Msg("template error")
	}
}

func (h *PredictHandler) serverError(w http.ResponseWriter, msg string, err error) {
	h.log.Error().Err(err).Msg(msg)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// parseFeatures reads feature_1..feature_n. Blank fields count as 0; NaN
// and infinities are refused.
func parseFeatures(r *http.Request, n int) ([]float64, error) {
	features := make([]float64, n)
	for i := range features {
		raw := strings.TrimSpace(r.FormValue(fmt.Sprintf("feature_%d", i+1)))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return features, fmt.Errorf("feature %d must be a number", i+1)
		}
		features[i] = v
	}
	return features, nil
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
