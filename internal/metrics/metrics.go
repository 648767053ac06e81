// Package metrics defines the Prometheus metrics exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cancerpredict"

// LoginsTotal counts login attempts.
// Label:
//   - result: "registered", "verified", "rejected" or "invalid"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AutoReconnectsTotal counts sessions opened from the last user marker.
var AutoReconnectsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auto_reconnects_total",
		Help:      "Total number of sessions opened from the last user marker without a credential check.",
	},
)

// PredictionsTotal counts recorded single-record predictions.
// Label:
//   - label: "0" (benign) or "1" (malignant)
var PredictionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total number of single-record predictions, by predicted label.",
	},
	[]string{"label"},
)

// BatchRowsTotal counts rows labelled through CSV uploads.
var BatchRowsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_rows_total",
		Help:      "Total number of rows labelled through batch CSV predictions.",
	},
)

// PredictionDuration measures classifier inference for a single record.
var PredictionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_duration_seconds",
		Help:      "Duration of single-record classifier inference.",
		Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
	},
)
