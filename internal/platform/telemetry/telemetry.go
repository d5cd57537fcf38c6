// Copyright (c) 2026 ImChat. All rights reserved.
// Author: Sherry00124

/*
Package telemetry installs the process-wide OpenTelemetry tracer provider.

Services obtain tracers with otel.Tracer and never reference this package.
Until [Setup] runs the global provider is a no-op, which is what tests see.
*/
package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// Supported exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// Config selects the exporter and sampling.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Exporter       string
	SampleRatio    float64

	// Output receives stdout-exported spans. Defaults to io.Discard when nil.
	Output io.Writer
}

// ShutdownFunc flushes pending spans and releases the provider.
type ShutdownFunc func(ctx context.Context) error

/*
Setup installs the global tracer provider and W3C propagators.

Returns:
  - ShutdownFunc: always non-nil; a no-op when tracing is disabled
  - error: unknown exporter or resource failure
*/
func Setup(ctx context.Context, cfg Config, logger *slog.Logger) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.Exporter == "" || cfg.Exporter == ExporterNone {
		logger.InfoContext(ctx, "tracing_disabled")
		return noop, nil
	}

	exporter, err := newExporter(cfg)
	if err != nil {
		return noop, err
	}

	// Schemaless: the merged resource keeps resource.Default's schema URL.
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("deployment.environment", cfg.Environment),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("telemetry: build resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(provider)

	logger.InfoContext(ctx, "tracing_enabled",
		slog.String("exporter", cfg.Exporter),
		slog.Float64("sample_ratio", cfg.SampleRatio),
	)

	return provider.Shutdown, nil
}

func newExporter(cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterStdout:
		output := cfg.Output
		if output == nil {
			output = io.Discard
		}
		return stdouttrace.New(stdouttrace.WithWriter(output))
	default:
		return nil, fmt.Errorf("telemetry: unknown exporter %q", cfg.Exporter)
	}
}

func sampler(ratio float64) sdktrace.Sampler {
	if ratio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}
