// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sherry00124/ImChat/internal/platform/middleware"
)

/*
TestTracing records one server span named after the chi route pattern.
*/
func TestTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	router := chi.NewRouter()
	router.Use(middleware.Tracing("test"))
	router.Get("/groups/{id}/messages", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/groups/g1/messages", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /groups/{id}/messages", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
