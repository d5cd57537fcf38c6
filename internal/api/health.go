// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Sherry00124/ImChat/internal/platform/constants"
	"github.com/Sherry00124/ImChat/internal/platform/respond"
)

// Checker tests one dependency.
type Checker func(ctx context.Context) error

// HealthDependencies holds the dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase Checker

	// CheckCache pings the Redis client that backs purge locks.
	CheckCache Checker
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

// readiness handles GET /ready.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	dependencies := []struct {
		name  string
		check Checker
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	results := make([]checkResult, 0, len(dependencies))
	isSystemReady := true

	for _, dependency := range dependencies {
		if dependency.check == nil {
			continue
		}
		result := checkResult{Name: dependency.name, IsOK: true}
		if err := dependency.check(request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", dependency.name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	status, code := "ready", http.StatusOK
	if !isSystemReady {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, code, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	}})
}
