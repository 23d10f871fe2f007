package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latencies per route.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	inflight prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP server metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})
	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Number of HTTP requests currently being served.",
	})
	reg.MustRegister(duration, requests, inflight)
	return &HTTPMetrics{
		duration: duration,
		requests: requests,
		inflight: inflight,
	}
}

// ObserveRequest records one completed request.
func (h *HTTPMetrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if h == nil || h.requests == nil {
		return
	}
	method = normalizeLabel(method)
	route = normalizeLabel(route)
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncInFlight marks a request as started.
func (h *HTTPMetrics) IncInFlight() {
	if h == nil || h.inflight == nil {
		return
	}
	h.inflight.Inc()
}

// DecInFlight marks a request as finished.
func (h *HTTPMetrics) DecInFlight() {
	if h == nil || h.inflight == nil {
		return
	}
	h.inflight.Dec()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
