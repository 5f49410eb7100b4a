package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AssignmentsTotal    *prometheus.CounterVec
	LinkageCallsTotal   *prometheus.CounterVec
	LinkageCallDuration prometheus.Histogram
}

// New creates the gateway collectors and registers them with registerer.
// Tests pass a fresh prometheus.NewRegistry() so servers can be built repeatedly.
func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "billing_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AssignmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_plan_assignments_total",
				Help: "Plan assignment attempts by outcome",
			},
			[]string{"outcome"},
		),
		LinkageCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_linkage_calls_total",
				Help: "Calls to the user management assign-plan endpoint by result",
			},
			[]string{"result"},
		),
		LinkageCallDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "billing_linkage_call_duration_seconds",
				Help:    "Latency of the user management assign-plan call including retries",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	registerer.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AssignmentsTotal,
		m.LinkageCallsTotal,
		m.LinkageCallDuration,
	)

	return m
}
