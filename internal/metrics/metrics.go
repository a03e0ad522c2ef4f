package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates the Prometheus collectors exposed by the service. A nil
// receiver is a no-op so wiring stays optional in tests and tools.
type Metrics struct {
	registry         *prometheus.Registry
	generationsTotal *prometheus.CounterVec
	creditsSpent     prometheus.Counter
	providerDuration prometheus.Histogram
}

// New creates a registry with process collectors plus the service collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		generationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aivenger_generations_total",
			Help: "Total generation attempts by terminal outcome.",
		}, []string{"outcome"}),
		creditsSpent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aivenger_credits_spent_total",
			Help: "Total credits debited for accepted generation attempts.",
		}),
		providerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "aivenger_provider_call_duration_seconds",
			Help:    "Image provider call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	registry.MustRegister(m.generationsTotal, m.creditsSpent, m.providerDuration)
	return m
}

// Handler serves the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveOutcome counts one generation attempt reaching a terminal outcome.
func (m *Metrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.generationsTotal.WithLabelValues(outcome).Inc()
}

// AddCreditsSpent records debited credits.
func (m *Metrics) AddCreditsSpent(amount int) {
	if m == nil {
		return
	}
	m.creditsSpent.Add(float64(amount))
}

// ObserveProviderDuration records one provider round trip.
func (m *Metrics) ObserveProviderDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.providerDuration.Observe(d.Seconds())
}
