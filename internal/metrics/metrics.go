// Package metrics exposes Prometheus collectors for the sales rules API
// on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup outcomes.
const (
	OutcomeHit      = "hit"
	OutcomeCacheHit = "cache_hit"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
	OutcomeLimited  = "rate_limited"
)

// Collector holds every metric of the service. A nil *Collector is valid
// and records nothing.
type Collector struct {
	registry       *prometheus.Registry
	lookups        *prometheus.CounterVec
	lookupDuration prometheus.Histogram
	writes         *prometheus.CounterVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sales_lookups_total",
			Help: "Sales org lookups by outcome",
		}, []string{"outcome"}),
		lookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sales_lookup_duration_seconds",
			Help:    "Time taken to resolve a sales org lookup",
			Buckets: prometheus.DefBuckets,
		}),
		writes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sales_rule_writes_total",
			Help: "Sales rule writes by operation",
		}, []string{"operation"}),
	}
}

// ObserveLookup records one lookup. Rejected lookups (invalid, rate
// limited) are counted without a duration.
func (c *Collector) ObserveLookup(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.lookups.WithLabelValues(outcome).Inc()
	if outcome != OutcomeInvalid && outcome != OutcomeLimited {
		c.lookupDuration.Observe(d.Seconds())
	}
}

// RecordWrite counts a successful create, update or delete.
func (c *Collector) RecordWrite(operation string) {
	if c == nil {
		return
	}
	c.writes.WithLabelValues(operation).Inc()
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
