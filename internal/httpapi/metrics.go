package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a GET /scan/next long poll.
const (
	waitResult   = "result"
	waitTimeout  = "timeout"
	waitCanceled = "canceled"
	waitFailed   = "error"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scancam",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"path", "method", "status"})

	requestSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scancam",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route. Excludes the /scan/next long poll.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
	}, []string{"path", "method"})

	inflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "scancam",
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "In-flight HTTP requests, including parked scan waits.",
	})

	scanWaitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scancam",
		Subsystem: "http",
		Name:      "scan_waits_total",
		Help:      "GET /scan/next outcomes.",
	}, []string{"outcome"})

	scanWaitSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scancam",
		Subsystem: "http",
		Name:      "scan_wait_seconds",
		Help:      "Time a GET /scan/next caller waited for its outcome.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestSeconds, inflight, scanWaitsTotal, scanWaitSeconds)
}

// observeScanWait records one long-poll outcome and how long it took.
func observeScanWait(outcome string, start time.Time) {
	scanWaitsTotal.WithLabelValues(outcome).Inc()
	scanWaitSeconds.Observe(time.Since(start).Seconds())
}

// MetricsMiddleware counts requests by chi route pattern. It must run inside
// the router so the pattern is known once the handler returns.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inflight.Inc()
		defer inflight.Dec()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			// Nothing written, e.g. a scan waiter whose client left.
			status = http.StatusOK
		}
		path := routePattern(r)
		requestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(status)).Inc()
		if path != "/scan/next" {
			requestSeconds.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
		}
	})
}

// routePattern falls back to "unmatched" so unknown paths cannot grow the
// label set.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
