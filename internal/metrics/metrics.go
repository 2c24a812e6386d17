// Package metrics holds the Prometheus collectors for the query pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderAttempts counts upstream model calls per provider and outcome
	// ("ok", "error", "not_sql").
	ProviderAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesbot_provider_attempts_total",
		Help: "Model provider attempts by provider name and outcome.",
	}, []string{"provider", "outcome"})

	// GenerationExhausted counts requests where every provider failed.
	GenerationExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "salesbot_generation_exhausted_total",
		Help: "Requests for which the whole provider cascade failed.",
	})

	// QueryDuration observes end-to-end executor latency per backend.
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "salesbot_query_duration_seconds",
		Help:    "Query execution latency by backend.",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend"})
)
