// Package metrics declares the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinetrack_http_requests_total",
			Help: "Number of HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinetrack_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AccountsPurgedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinetrack_accounts_purged_total",
			Help: "Accounts deleted by the purge jobs, by reason.",
		},
		[]string{"reason"},
	)

	PurgeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinetrack_purge_errors_total",
			Help: "Failed purge runs, by reason.",
		},
		[]string{"reason"},
	)

	EditConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinetrack_edit_conflicts_total",
			Help: "Optimistic concurrency conflicts that were retried.",
		},
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}
