// Package metrics exposes Prometheus collectors for the HTTP server and a
// few domain events.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// httpRequestsTotal counts requests by route pattern, method and status.
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quicknote_http_requests_total",
		Help: "Total HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	// httpRequestDuration tracks handler latency.
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quicknote_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	}, []string{"route", "method"})

	sessionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quicknote_session_events_total",
		Help: "Session lifecycle events by kind",
	}, []string{"event"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quicknote_rate_limited_total",
		Help: "Requests rejected by the rate limiter, by path",
	}, []string{"path"})
)

// Session event kinds.
const (
	SessionStarted = "started"
	SessionEnded   = "ended"
	SessionDenied  = "denied"
)

// ObserveSession records a session lifecycle event.
func ObserveSession(event string) {
	sessionEvents.WithLabelValues(event).Inc()
}

// ObserveRateLimited records a request rejected by the rate limiter.
func ObserveRateLimited(path string) {
	rateLimited.WithLabelValues(path).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records count and latency per chi route pattern. Unmatched
// requests are grouped under "unmatched" to keep label cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
