package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ModelRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskradar_model_requests_total",
			Help: "Total number of model calls by operation, model and outcome",
		},
		[]string{"operation", "model", "outcome"},
	)

	ModelRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riskradar_model_request_duration_seconds",
			Help:    "Duration of model calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 120},
		},
		[]string{"operation", "model"},
	)

	ExtractionStrategy = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskradar_json_extraction_total",
			Help: "Which fallback strategy recovered JSON from a model response",
		},
		[]string{"operation", "strategy"},
	)

	WorkflowTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskradar_workflow_transitions_total",
			Help: "Workflow state transitions",
		},
		[]string{"from", "to"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "riskradar_sessions_active",
			Help: "Number of workflow sessions held in memory",
		},
	)
)

// Outcome labels for ModelRequests.
const (
	OutcomeSuccess    = "success"
	OutcomeTransient  = "transient_failure"
	OutcomeCredential = "credential_invalid"
)
