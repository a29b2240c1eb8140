package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Transition("punch_in", "ok")
		m.Review("approved")
		m.Sweep(3, 1, time.Now())
		m.WorkTimeAnomaly()
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.Transition("punch_in", "ok")
	m.Transition("punch_in", "ok")
	m.Transition("punch_in", "ALREADY_PUNCHED_IN")
	m.Review("approved")
	m.Sweep(5, 2, time.Unix(1700000000, 0))
	m.WorkTimeAnomaly()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("punch_in", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("punch_in", "ALREADY_PUNCHED_IN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reviews.WithLabelValues("approved")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.sweepInserted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sweepFailures))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.sweepLastRun))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.anomalies))
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/42", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `http_request_duration_seconds_count{method="GET",route="/things/{id}",status="418"} 1`), body)
}
