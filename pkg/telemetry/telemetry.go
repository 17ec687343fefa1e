// Package telemetry sets up OpenTelemetry tracing for pagelegend.
//
// Traces are exported with OTLP over gRPC. When no endpoint is configured,
// a no-op tracer provider is installed instead.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/macropower/pagelegend/pkg/version"
)

const shutdownTimeout = 5 * time.Second

// Config configures tracing.
type Config struct {
	// Endpoint is the OTLP gRPC endpoint, e.g. "localhost:4317". Tracing is
	// disabled when empty.
	Endpoint string
	// ServiceName defaults to [version.Name].
	ServiceName string
	// SampleRatio is the fraction of traces to sample. Defaults to 1.
	SampleRatio float64
	// Insecure disables transport security.
	Insecure bool
}

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(ctx context.Context) error

// Telemetry holds the active tracer provider.
type Telemetry struct {
	Provider trace.TracerProvider
	shutdown ShutdownFunc
}

// Tracer returns a named tracer of the provider.
func (t *Telemetry) Tracer(name string) trace.Tracer {
	return t.Provider.Tracer(name)
}

// Shutdown flushes buffered spans and stops the provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.shutdown(ctx)
}

// New creates the tracer provider described by cfg and installs it as the
// global provider.
func New(ctx context.Context, cfg Config) (*Telemetry, error) {
	if cfg.Endpoint == "" {
		tp := nooptrace.NewTracerProvider()
		otel.SetTracerProvider(tp)

		return &Telemetry{
			Provider: tp,
			shutdown: func(context.Context) error { return nil },
		}, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	tp, err := NewProvider(cfg, sdktrace.WithBatcher(exporter))
	if err != nil {
		return nil, errors.Join(err, exporter.Shutdown(ctx))
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Telemetry{
		Provider: tp,
		shutdown: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			err := tp.Shutdown(ctx)
			if err != nil {
				return fmt.Errorf("shutdown tracer provider: %w", err)
			}

			return nil
		},
	}, nil
}

// NewProvider creates an SDK tracer provider with the resource and sampler
// described by cfg. Additional options, e.g. span processors, are appended.
func NewProvider(cfg Config, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = version.Name
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version.GetVersion()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	opts = append([]sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	}, opts...)

	return sdktrace.NewTracerProvider(opts...), nil
}
