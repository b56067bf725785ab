package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qkart_backend_requests_total",
			Help: "Total number of requests sent to the QKart backend.",
		},
		[]string{"code", "method", "path"},
	)
	backendRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qkart_backend_request_duration_seconds",
			Help:    "Duration of QKart backend requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	backendRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qkart_backend_requests_in_flight",
			Help: "Current number of QKart backend requests awaiting a response.",
		},
	)

	searchesDebounced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qkart_search_debounced_total",
			Help: "Search box changes superseded before their quiescence window elapsed.",
		},
	)

	searchesStale = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qkart_search_stale_results_total",
			Help: "Search results dropped because a newer search had been issued.",
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

// "no_response" is used as the code label when the transport failed
const codeNoResponse = "no_response"

// Transport records count, latency and in-flight gauge for backend calls.
func Transport(next http.RoundTripper) http.RoundTripper {
	return middleware.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {

		start := time.Now()
		backendRequestsInFlight.Inc()

		code := codeNoResponse
		path := r.URL.Path

		defer func() {

			backendRequestsTotal.WithLabelValues(code, r.Method, path).Inc()
			backendRequestsDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
			backendRequestsInFlight.Dec()

		}()

		resp, err := next.RoundTrip(r)
		if err == nil {
			code = strconv.Itoa(resp.StatusCode)
		}

		return resp, err
	})
}

func SearchDebounced() {
	searchesDebounced.Inc()
}

func SearchStale() {
	searchesStale.Inc()
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
