// Package metrics holds the Prometheus collectors for attendance operations.
// All methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	transitions     *prometheus.CounterVec
	reviews         *prometheus.CounterVec
	sweepInserted   prometheus.Counter
	sweepFailures   prometheus.Counter
	sweepLastRun    prometheus.Gauge
	anomalies       prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_transitions_total",
			Help: "Attendance lifecycle transitions by action and result",
		}, []string{"action", "result"}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_edit_reviews_total",
			Help: "Edit request reviews by outcome",
		}, []string{"outcome"}),
		sweepInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_absence_sweep_inserted_total",
			Help: "Absent placeholders written by the daily sweep",
		}),
		sweepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_absence_sweep_failures_total",
			Help: "Employees the daily sweep failed to write",
		}),
		sweepLastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "attendance_absence_sweep_last_run_timestamp_seconds",
			Help: "Unix time of the last completed sweep",
		}),
		anomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_work_time_anomalies_total",
			Help: "Records whose computed work time was negative",
		}),
	}

	registry.MustRegister(
		m.requestDuration, m.transitions, m.reviews,
		m.sweepInserted, m.sweepFailures, m.sweepLastRun, m.anomalies,
		collectors.NewGoCollector(),
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return m
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request durations labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

// Transition counts a lifecycle action. result is ok, rejected or error.
func (m *Metrics) Transition(action, result string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(action, result).Inc()
}

func (m *Metrics) Review(outcome string) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Sweep(inserted, failed int, at time.Time) {
	if m == nil {
		return
	}
	m.sweepInserted.Add(float64(inserted))
	m.sweepFailures.Add(float64(failed))
	m.sweepLastRun.Set(float64(at.Unix()))
}

func (m *Metrics) WorkTimeAnomaly() {
	if m == nil {
		return
	}
	m.anomalies.Inc()
}
