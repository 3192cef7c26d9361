// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus instrumentation for the API server.

It owns a private registry so tests can create independent instances, and it
serves the registry on /metrics through promhttp.

Recorded series:

  - stockify_http_requests_total / stockify_http_request_duration_seconds
  - stockify_guard_decisions_total (edge gate outcomes)
  - stockify_auth_events_total (login, logout, register, password reset)
  - stockify_permission_cache_total (hit or miss)
  - stockify_db_pool_* (pgxpool connection gauges)
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stockify"

// Guard outcomes.
const (
	GuardAllowed         = "allowed"
	GuardRedirectMissing = "redirect_missing"
	GuardRedirectInvalid = "redirect_invalid"
	GuardRedirectRevoked = "redirect_revoked"
)

// Metrics holds every collector registered by the server.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	guardDecisions      *prometheus.CounterVec
	authEvents          *prometheus.CounterVec
	permissionCache     *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		guardDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guard_decisions_total",
				Help:      "Decisions taken by the dashboard edge gate",
			},
			[]string{"outcome"},
		),
		authEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_events_total",
				Help:      "Authentication events by outcome",
			},
			[]string{"event", "outcome"},
		),
		permissionCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "permission_cache_total",
				Help:      "Permission grid cache lookups",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.guardDecisions,
		m.authEvents,
		m.permissionCache,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveGuard records one edge gate decision.
func (m *Metrics) ObserveGuard(outcome string) {
	m.guardDecisions.WithLabelValues(outcome).Inc()
}

// ObserveAuth records an authentication event such as ("login", "failure").
func (m *Metrics) ObserveAuth(event, outcome string) {
	m.authEvents.WithLabelValues(event, outcome).Inc()
}

// ObservePermissionCache records a permission grid cache hit or miss.
func (m *Metrics) ObservePermissionCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.permissionCache.WithLabelValues(result).Inc()
}

// RegisterPool exports pgxpool connection gauges.
func (m *Metrics) RegisterPool(pool *pgxpool.Pool) {
	gauge := func(name, help string, value func(*pgxpool.Stat) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Namespace: namespace, Subsystem: "db_pool", Name: name, Help: help},
			func() float64 { return value(pool.Stat()) },
		)
	}

	m.registry.MustRegister(
		gauge("acquired_conns", "Connections currently in use",
			func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
		gauge("idle_conns", "Idle connections",
			func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
		gauge("total_conns", "Open connections",
			func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }),
		gauge("max_conns", "Configured connection ceiling",
			func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
	)
}

// # HTTP Instrumentation

// responseWriter captures the status code written by downstream handlers.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware instruments requests. Routes are labelled by their chi pattern
// (e.g. /api/stock/{id}) so that ids never become label values.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: writer, statusCode: http.StatusOK}

		next.ServeHTTP(rw, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		m.httpRequestsTotal.WithLabelValues(request.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		m.httpRequestDuration.WithLabelValues(request.Method, route).Observe(time.Since(start).Seconds())
	})
}
