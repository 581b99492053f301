package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cassiomorais/paygate/internal/infrastructure/observability"
	"github.com/cassiomorais/paygate/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsRequestsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics("paygate_test", reg)

	r := chi.NewRouter()
	r.Use(middleware.Metrics(m))
	r.Get("/payments/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/payments/"+id, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	// Both requests collapse onto the route pattern, not the raw paths.
	count := promtestutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/payments/{id}", "404"),
	)
	assert.Equal(t, float64(2), count)
}

func TestMetrics_NilMetricsPassesThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.Metrics(nil))
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
