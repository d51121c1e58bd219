// Package metrics provides Prometheus metrics collection for the timing board.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Global metrics - used by the application
	// Using atomic.Pointer for lock-free initialization checks on hot path metrics.
	requestsTotal     atomic.Pointer[prometheus.CounterVec]
	requestDuration   atomic.Pointer[prometheus.HistogramVec]
	authFailuresTotal atomic.Pointer[prometheus.CounterVec]
	zoneReloadsTotal  atomic.Pointer[prometheus.CounterVec]
	sseSubscribers    atomic.Pointer[prometheus.Gauge]
)

// Init initializes all Prometheus metrics and registers them with the provided registry.
// This should be called once at application startup.
func Init(reg prometheus.Registerer) error {
	// HTTP request counter: tracks all requests by method, path (normalized), and status code
	requestsTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "timing",
			Subsystem: "board",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled by the board",
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestsTotalVec); err != nil {
		return fmt.Errorf("failed to register requestsTotal: %w", err)
	}

	// Request duration histogram: tracks latency distribution
	requestDurationVec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "timing",
			Subsystem: "board",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestDurationVec); err != nil {
		return fmt.Errorf("failed to register requestDuration: %w", err)
	}

	// Auth failures counter: tracks failed authentication attempts
	authFailuresTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "timing",
			Subsystem: "board",
			Name:      "auth_failures_total",
			Help:      "Total number of authentication failures",
		},
		[]string{"reason"},
	)
	if err := reg.Register(authFailuresTotalVec); err != nil {
		return fmt.Errorf("failed to register authFailuresTotal: %w", err)
	}

	// Zone reload counter: tracks full re-syncs of the directory by outcome
	zoneReloadsTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "timing",
			Subsystem: "board",
			Name:      "zone_reloads_total",
			Help:      "Total number of zone directory reloads",
		},
		[]string{"outcome"},
	)
	if err := reg.Register(zoneReloadsTotalVec); err != nil {
		return fmt.Errorf("failed to register zoneReloadsTotal: %w", err)
	}

	// Gauge for currently connected SSE clients
	sseSubscribersGauge := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "timing",
			Subsystem: "board",
			Name:      "sse_subscribers",
			Help:      "Number of currently connected change-feed subscribers",
		},
	)
	if err := reg.Register(sseSubscribersGauge); err != nil {
		return fmt.Errorf("failed to register sseSubscribers: %w", err)
	}

	// Info gauge: static metric with constant label values for build info
	infoGaugeVec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "timing",
			Subsystem: "board",
			Name:      "info",
			Help:      "Board version and build information",
		},
		[]string{"version"},
	)
	infoGaugeInstance := infoGaugeVec.WithLabelValues("1.0.0")
	if err := reg.Register(infoGaugeVec); err != nil {
		return fmt.Errorf("failed to register infoGauge: %w", err)
	}
	infoGaugeInstance.Set(1)

	// Store metrics in atomics for lock-free access in record functions
	requestsTotal.Store(requestsTotalVec)
	requestDuration.Store(requestDurationVec)
	authFailuresTotal.Store(authFailuresTotalVec)
	zoneReloadsTotal.Store(zoneReloadsTotalVec)
	sseSubscribers.Store(&sseSubscribersGauge)

	return nil
}

// RecordRequest increments the requests counter for the given method, path, and status code.
// The path should be normalized (e.g., "/api/zones/:id" instead of a raw UUID path).
func RecordRequest(method, path, statusCode string) {
	if counter := requestsTotal.Load(); counter != nil {
		counter.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordRequestDuration records the latency for a request, in seconds.
func RecordRequestDuration(method, path, statusCode string, durationSeconds float64) {
	if histogram := requestDuration.Load(); histogram != nil {
		histogram.WithLabelValues(method, path, statusCode).Observe(durationSeconds)
	}
}

// RecordAuthFailure increments the auth failures counter for the given reason.
// Common reasons: "missing_token", "invalid_token", "admin_required".
func RecordAuthFailure(reason string) {
	if counter := authFailuresTotal.Load(); counter != nil {
		counter.WithLabelValues(reason).Inc()
	}
}

// RecordZoneReload increments the reload counter; outcome is "ok" or "error".
func RecordZoneReload(outcome string) {
	if counter := zoneReloadsTotal.Load(); counter != nil {
		counter.WithLabelValues(outcome).Inc()
	}
}

// SSESubscriberConnected adjusts the connected-subscriber gauge by delta
// (+1 on connect, -1 on disconnect).
func SSESubscriberConnected(delta float64) {
	if gauge := sseSubscribers.Load(); gauge != nil {
		(*gauge).Add(delta)
	}
}

// Handler returns an HTTP handler for Prometheus metrics in text format.
// This handler should be registered at /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GetMetricsText returns the Prometheus text-format output from a registry.
// This is useful for testing and debugging.
func GetMetricsText(reg prometheus.Gatherer) (string, error) {
	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	body, err := io.ReadAll(w.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read metrics output: %w", err)
	}

	return string(body), nil
}
