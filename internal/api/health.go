// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/stockify/internal/platform/ctxutil"
	"github.com/taibuivan/stockify/internal/platform/respond"
)

// readinessTimeout bounds each dependency check.
const readinessTimeout = 2 * time.Second

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func(ctx context.Context) error

	// CheckCache pings the Redis client.
	CheckCache func(ctx context.Context) error
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type healthHandler struct {
	dependencies HealthDependencies
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness handles GET /ready.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	checks := []struct {
		name  string
		probe func(ctx context.Context) error
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	results := make([]checkResult, 0, len(checks))
	ready := true

	for _, check := range checks {
		if check.probe == nil {
			continue
		}

		ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
		err := check.probe(ctx)
		cancel()

		result := checkResult{Name: check.name, IsOK: err == nil}
		if err != nil {
			ready = false
			result.Error = err.Error()
			ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", check.name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	if !ready {
		respond.JSON(writer, http.StatusServiceUnavailable, respond.SuccessEnvelope{
			Data: map[string]any{"status": "degraded", "checks": results},
		})
		return
	}

	respond.OK(writer, map[string]any{"status": "ready", "checks": results})
}
