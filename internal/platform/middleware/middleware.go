// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

/*
Package middleware provides the cross-cutting HTTP processing chain.

Standard Stack:

  - Trace: RequestID generation for log correlation, OpenTelemetry server spans.
  - Log: structured request logging (slog).
  - Guard: per-IP rate limiting and bearer-token authentication.
  - Safe: panic recovery.
*/
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/Sherry00124/ImChat/internal/platform/apperr"
	"github.com/Sherry00124/ImChat/internal/platform/constants"
	"github.com/Sherry00124/ImChat/internal/platform/ctxutil"
	"github.com/Sherry00124/ImChat/internal/platform/respond"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request for log tracing.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// Trust a client-supplied ID, otherwise mint a time-sortable one.
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				if id, err := uuid.NewV7(); err == nil {
					requestID = id.String()
				} else {
					requestID = uuid.NewString()
				}
			}

			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// Tracing opens a server span per request, continuing any upstream trace
// carried in the headers. The span is renamed to the matched route pattern.
func Tracing(tracerName string) func(http.Handler) http.Handler {
	tracer := otel.Tracer(tracerName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(request.Context(), propagation.HeaderCarrier(request.Header))

			ctx, span := tracer.Start(ctx, request.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", request.Method),
					attribute.String("url.path", request.URL.Path),
					attribute.String("request.id", ctxutil.GetRequestID(ctx)),
				),
			)
			defer span.End()

			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}
			next.ServeHTTP(recorder, request.WithContext(ctx))

			if routeContext := chi.RouteContext(ctx); routeContext != nil {
				if pattern := routeContext.RoutePattern(); pattern != "" {
					span.SetName(request.Method + " " + pattern)
					span.SetAttributes(attribute.String("http.route", pattern))
				}
			}

			span.SetAttributes(attribute.Int("http.response.status_code", recorder.status))
			if recorder.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(recorder.status))
			}
		})
	}
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// StructuredLogger logs every request with its status and latency.
// It also injects a request-scoped logger into the context.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			startTime := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}
			request = request.WithContext(ctx)

			next.ServeHTTP(wrappedWriter, request)

			logLevel := slog.LevelInfo
			switch {
			case wrappedWriter.status >= 500:
				logLevel = slog.LevelError
			case wrappedWriter.status >= 400:
				logLevel = slog.LevelWarn
			}

			logAttrs := []any{
				slog.Int("status", wrappedWriter.status),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}

			// Present only when Authenticate is mounted ahead of this logger.
			if userID := ctxutil.GetAuthUserID(ctx); userID != "" {
				logAttrs = append(logAttrs, slog.String("user_id", userID))
			}

			requestLogger.Log(ctx, logLevel, "http_request_finished", logAttrs...)
		})
	}
}

// # Rate Limiting

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	rps     rate.Limit
	burst   int
}

// NewRateLimiter creates a limiter and starts its idle-entry sweeper, which
// stops when context is cancelled.
func NewRateLimiter(context context.Context, rps float64, burst int) *RateLimiter {
	limiter := &RateLimiter{
		clients: make(map[string]*rateLimitClient),
		rps:     rate.Limit(rps),
		burst:   burst,
	}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				limiter.sweep(time.Now())
			case <-context.Done():
				return
			}
		}
	}()

	return limiter
}

// Allow reports whether a request from clientIP may proceed now.
func (limiter *RateLimiter) Allow(clientIP string) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	client, found := limiter.clients[clientIP]
	if !found {
		client = &rateLimitClient{limiter: rate.NewLimiter(limiter.rps, limiter.burst)}
		limiter.clients[clientIP] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow()
}

func (limiter *RateLimiter) sweep(now time.Time) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for ip, client := range limiter.clients {
		if now.Sub(client.lastSeen) > constants.RateLimitClientTTL {
			delete(limiter.clients, ip)
		}
	}
}

// Middleware rejects requests over the per-IP budget with 429.
func (limiter *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !limiter.Allow(RealIP(request)) {
			respond.Error(writer, request, apperr.RateLimited(1))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # Reliability & Safety

// PanicRecovery recovers from panics, logs the stack trace and answers 500.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}

			stackTrace := make([]byte, 4096)
			length := runtime.Stack(stackTrace, false)

			ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
				slog.Any("error", recovered),
				slog.String("stack", string(stackTrace[:length])),
			)

			respond.Error(writer, request, apperr.Failure(fmt.Errorf("panic: %v", recovered)))
		}()

		next.ServeHTTP(writer, request)
	})
}

// # Middleware Helpers

// RealIP extracts the client IP, respecting common proxy headers.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
