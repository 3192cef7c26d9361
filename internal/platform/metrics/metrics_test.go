// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stockify/internal/platform/metrics"
)

/*
TestMiddleware_RoutePattern verifies that requests are labelled by route pattern, not raw path.
*/
func TestMiddleware_RoutePattern(t *testing.T) {
	m := metrics.New()

	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/api/stock/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router.Handle("/metrics", m.Handler())

	for _, id := range []string{"1", "2", "3"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/stock/"+id, nil))
	}

	m.ObserveGuard(metrics.GuardRedirectMissing)
	m.ObserveAuth("login", "failure")
	m.ObservePermissionCache(true)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)

	exposition := string(body)
	assert.Contains(t, exposition, `stockify_http_requests_total{method="GET",route="/api/stock/{id}",status="418"} 3`)
	assert.Contains(t, exposition, `stockify_guard_decisions_total{outcome="redirect_missing"} 1`)
	assert.Contains(t, exposition, `stockify_auth_events_total{event="login",outcome="failure"} 1`)
	assert.Contains(t, exposition, `stockify_permission_cache_total{result="hit"} 1`)
}

/*
TestNew_IndependentRegistries ensures two instances never share collectors.
*/
func TestNew_IndependentRegistries(t *testing.T) {
	first := metrics.New()
	second := metrics.New()

	first.ObserveGuard(metrics.GuardAllowed)

	count, err := testutil.GatherAndCount(second.Registry(), "stockify_guard_decisions_total")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
