package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Oracle call outcomes.
const (
	OutcomeOracle       = "oracle"
	OutcomeShortCircuit = "short_circuit"
	OutcomeFallback     = "fallback"
	OutcomeInvalid      = "invalid_response"
)

// PricingMetrics records pricing-oracle call outcomes and latency.
type PricingMetrics struct {
	latency  *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_oracle_duration_seconds",
		Help:    "Duration of pricing oracle calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_line_total_outcomes",
		Help: "Line total computations by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(latency, outcomes)
	return &PricingMetrics{
		latency:  latency,
		outcomes: outcomes,
	}
}

// ObserveOracleLatency records the duration of one oracle call.
func (p *PricingMetrics) ObserveOracleLatency(endpoint string, duration time.Duration) {
	if p == nil || p.latency == nil {
		return
	}
	p.latency.WithLabelValues(normalizeLabel(endpoint)).Observe(duration.Seconds())
}

// IncOutcome increments the counter for the named computation outcome.
func (p *PricingMetrics) IncOutcome(outcome string) {
	if p == nil || p.outcomes == nil {
		return
	}
	p.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return strings.ReplaceAll(trimmed, " ", "_")
}
