package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationsTotal counts full-document generations by outcome
	// ("ok", "unrepairable", "rate_limited", "error").
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grantforge_generations_total",
		Help: "Full proposal generations by outcome.",
	}, []string{"outcome"})

	// EditsTotal counts instructed edits by outcome.
	EditsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grantforge_edits_total",
		Help: "Instructed proposal edits by outcome.",
	}, []string{"outcome"})

	// ProviderLatency observes round-trip time to the generation
	// backend, labeled by provider name.
	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grantforge_provider_latency_seconds",
		Help:    "Generation backend round-trip latency.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	}, []string{"provider"})
)
