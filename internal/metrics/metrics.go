// Package metrics holds Prometheus instruments that are used across the
// site.  All collectors are registered with the global registry, so
// importing this package is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FormSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Submit attempts by form and result (submitted, invalid, failed, busy, rejected).",
		}, []string{"form", "result"})

	FormDispatchSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "form_dispatch_seconds",
			Help:    "Latency of the single outbound request made per submission.",
			Buckets: prometheus.DefBuckets,
		}, []string{"form"})

	FormDispatchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_dispatch_errors_total",
			Help: "Outbound submissions that failed at the transport level.",
		}, []string{"form"})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Served HTTP requests by method and status code.",
		}, []string{"method", "code"})

	RegisteredForms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "registered_forms",
			Help: "Number of form definitions currently loaded.",
		})
)

func init() {
	prometheus.MustRegister(
		FormSubmissionsTotal,
		FormDispatchSeconds,
		FormDispatchErrorsTotal,
		HTTPRequestsTotal,
		RegisteredForms,
	)
}
