package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusNotSent        = "not_sent"
	statusTransportError = "transport_error"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "remsfal_api_requests_total",
		Help: "Total number of API calls by method, URL template and outcome.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "remsfal_api_request_duration_seconds",
		Help:    "Duration of API calls by method and URL template.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// observeRequest records one call. route is the unresolved URL template so
// label cardinality stays bounded.
func observeRequest(method, route, status string, d time.Duration) {
	requestsTotal.WithLabelValues(method, route, status).Inc()
	requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func statusLabel(code int) string {
	return strconv.Itoa(code)
}
