// Package tracing provides the execution-tracing backend for advanced
// assets: an OpenTelemetry tracer for span export and a bounded in-memory
// recorder for per-call diagnostics.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config configures the tracing subsystem.
type Config struct {
	// Enabled controls whether spans are exported. When false a no-op
	// tracer is installed and only the in-memory recorder is active.
	Enabled bool `koanf:"enabled"`

	// ServiceName identifies this process in exported spans.
	ServiceName string `koanf:"service_name"`

	// PrettyPrint renders exported spans as indented JSON.
	PrettyPrint bool `koanf:"pretty_print"`

	// Writer receives exported spans; defaults to stdout.
	Writer io.Writer `koanf:"-"`
}

// DefaultConfig returns the development defaults: tracing off.
func DefaultConfig() Config {
	return Config{
		Enabled:     false,
		ServiceName: "assetforge",
	}
}

// Tracer bundles the otel tracer with its shutdown hook.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
}

// New builds a tracer from cfg. Disabled configs return a no-op tracer with
// a nil provider; Shutdown is still safe to call.
func New(ctx context.Context, cfg Config) (*Tracer, error) {
	if !cfg.Enabled {
		return &Tracer{tracer: noop.NewTracerProvider().Tracer("assetforge")}, nil
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if cfg.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	name := cfg.ServiceName
	if name == "" {
		name = "assetforge"
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(name),
	))
	if err != nil {
		return nil, fmt.Errorf("building trace resource: %w", err)
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return &Tracer{tracer: provider.Tracer("assetforge"), provider: provider}, nil
}

// Start opens a pipeline span for the given asset.
func (t *Tracer) Start(ctx context.Context, asset string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "asset.process",
		trace.WithAttributes(attribute.String("asset.name", asset)))
}

// Shutdown flushes pending spans. Safe on a disabled tracer.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
