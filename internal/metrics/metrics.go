// Package metrics exposes the Prometheus collectors for the order API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ricemart_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ricemart_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ricemart_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation", "status"},
	)

	degradedSideEffects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ricemart_degraded_side_effects_total",
			Help: "Secondary steps that failed after the primary operation committed",
		},
		[]string{"operation"},
	)

	lowStockNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ricemart_low_stock_notifications_total",
			Help: "Low stock notification attempts by outcome",
		},
		[]string{"result"},
	)

	stockUnmatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ricemart_stock_unmatched_items_total",
			Help: "Order items whose product name matched no stock entry",
		},
	)
)

// Middleware records request count and latency by route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				path = p
			}
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		status := strconv.Itoa(code)
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}

func RecordOrderOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	orderOperations.WithLabelValues(operation, status).Inc()
}

func RecordDegraded(operation string) {
	degradedSideEffects.WithLabelValues(operation).Inc()
}

// RecordNotification takes one of "sent", "failed", "skipped".
func RecordNotification(result string) {
	lowStockNotifications.WithLabelValues(result).Inc()
}

func RecordUnmatched(n int) {
	stockUnmatched.Add(float64(n))
}
