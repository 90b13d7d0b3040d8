// Package metrics wires Prometheus instrumentation for the coordinator
// using github.com/prometheus/client_golang directly: counters, gauges,
// and histograms registered once at startup and exported over /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	QueueDepth         prometheus.Gauge
	ClaimLatency       prometheus.Histogram
	ClaimsWon          prometheus.Counter
	ClaimsContended    prometheus.Counter
	JobsReclaimed      prometheus.Counter
	DQIssuesBySeverity *prometheus.CounterVec
	HTTPInflight       prometheus.Gauge
	HTTPRequests       *prometheus.CounterVec
	HTTPLatency        *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "coordinator",
			Subsystem: "ingress",
			Name:      "handoff_depth",
			Help:      "Current number of messages buffered in the C1->C2 hand-off channel.",
		}),
		ClaimLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coordinator",
			Subsystem: "claim",
			Name:      "latency_seconds",
			Help:      "Latency of the claim transaction, from request to commit.",
			Buckets:   prometheus.DefBuckets,
		}),
		ClaimsWon: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "coordinator",
			Subsystem: "claim",
			Name:      "won_total",
			Help:      "Total claim attempts that won a job.",
		}),
		ClaimsContended: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "coordinator",
			Subsystem: "claim",
			Name:      "contended_total",
			Help:      "Total claim attempts that found no job to claim: none eligible, or lost the race to a concurrent claimer.",
		}),
		JobsReclaimed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "coordinator",
			Subsystem: "liveness",
			Name:      "jobs_reclaimed_total",
			Help:      "Total jobs reclaimed from workers that went offline.",
		}),
		DQIssuesBySeverity: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coordinator",
			Subsystem: "data_quality",
			Name:      "issues_total",
			Help:      "Total data quality issues reported, by severity.",
		}, []string{"severity"}),
		HTTPInflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "coordinator",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Number of HTTP requests currently being served.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coordinator",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests, by method, route, and status.",
		}, []string{"method", "route", "status"}),
		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coordinator",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}
