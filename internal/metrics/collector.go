// Package metrics provides internal Prometheus collectors.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector aggregates the module's operational metrics. A nil *Collector
// is a valid no-op receiver so that metrics stay optional everywhere.
type Collector struct {
	gatewayRequestsTotal   *prometheus.CounterVec
	gatewayRequestDuration *prometheus.HistogramVec
	exchangesTotal         *prometheus.CounterVec
	summarizationsTotal    *prometheus.CounterVec
	extractionsTotal       *prometheus.CounterVec
}

// NewCollector registers the module's collectors under the given namespace.
func NewCollector(namespace string) *Collector {
	return &Collector{
		gatewayRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_requests_total",
				Help:      "Total number of model gateway calls",
			},
			[]string{"provider", "outcome"},
		),
		gatewayRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_request_duration_seconds",
				Help:      "Model gateway call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		exchangesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversation_exchanges_total",
				Help:      "Total number of completed conversation exchanges",
			},
			[]string{"outcome"},
		),
		summarizationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversation_summarizations_total",
				Help:      "Total number of history summarization attempts",
			},
			[]string{"outcome"},
		),
		extractionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extractions_total",
				Help:      "Total number of structured extraction attempts",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveGatewayRequest records one gateway call.
func (c *Collector) ObserveGatewayRequest(provider, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.gatewayRequestsTotal.WithLabelValues(provider, outcome).Inc()
	c.gatewayRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// IncExchange records one conversation exchange.
func (c *Collector) IncExchange(outcome string) {
	if c == nil {
		return
	}
	c.exchangesTotal.WithLabelValues(outcome).Inc()
}

// IncSummarization records one summarization attempt.
func (c *Collector) IncSummarization(outcome string) {
	if c == nil {
		return
	}
	c.summarizationsTotal.WithLabelValues(outcome).Inc()
}

// IncExtraction records one extraction attempt.
func (c *Collector) IncExtraction(outcome string) {
	if c == nil {
		return
	}
	c.extractionsTotal.WithLabelValues(outcome).Inc()
}

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
