// Package tracing sets up OpenTelemetry for soundgrip. Spans are written as
// JSON to a file when a trace file is configured; otherwise the global no-op
// provider is left in place.
package tracing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationPrefix = "soundgrip/"

// Tracer returns a named tracer from the global provider.
func Tracer(component string) trace.Tracer {
	return otel.Tracer(instrumentationPrefix + component)
}

// Setup installs a tracer provider exporting to path. The returned shutdown
// function flushes pending spans and closes the file. An empty path installs
// nothing and returns a no-op shutdown.
func Setup(path string) (func(context.Context) error, error) {
	if path == "" {
		return func(context.Context) error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating trace directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		shutdownErr := tp.Shutdown(ctx)
		closeErr := f.Close()
		if shutdownErr != nil {
			return fmt.Errorf("shutting down tracer provider: %w", shutdownErr)
		}
		return closeErr
	}, nil
}
