package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "postan", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "postan", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// PipelineFailures counts requests halted by a pipeline stage, by the
	// failure kind the stage produced.
	PipelineFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "postan", Name: "pipeline_failures_total", Help: "Requests halted by a validation pipeline stage."},
		[]string{"stage", "failure"},
	)
	// ModelValidationFailures counts entity-level validation failures by kind and field.
	ModelValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "postan", Name: "model_validation_failures_total", Help: "Entity validation failures by kind and field."},
		[]string{"kind", "field"},
	)
	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "postan", Name: "store_operations_total", Help: "Document store operations by kind, operation and outcome."},
		[]string{"kind", "op", "outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(PipelineFailures)
	reg.MustRegister(ModelValidationFailures)
	reg.MustRegister(StoreOperations)
}
