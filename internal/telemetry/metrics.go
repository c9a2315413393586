// Package telemetry exposes Prometheus metrics for the API and the
// calendar engine.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "panchanga"

var (
	// APIRequestsTotal counts HTTP requests by method, route pattern and status.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "endpoint", "status"})

	// APIRequestDuration tracks HTTP request latency.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "endpoint", "status"})

	// APIActiveConnections is the number of requests in flight.
	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "api_active_connections",
		Help:      "HTTP requests currently being served.",
	})

	// DaysComputedTotal counts computed dates by location and result.
	DaysComputedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "days_computed_total",
		Help:      "Calendar dates computed.",
	}, []string{"location", "result"})

	// DayComputeDuration tracks the time to compute one date.
	DayComputeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "day_compute_duration_seconds",
		Help:      "Time to compute one calendar date.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"location"})

	// SkippedComponentsTotal counts components omitted because an event did not occur.
	SkippedComponentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "skipped_components_total",
		Help:      "Day components omitted because a rise or set did not occur.",
	}, []string{"location", "component"})

	// OracleCallsTotal counts ephemeris queries by operation and result.
	OracleCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oracle_calls_total",
		Help:      "Ephemeris oracle queries.",
	}, []string{"operation", "body", "result"})
)

// Result label values.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
	ResultNone   = "none"
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
