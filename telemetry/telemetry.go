package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Init installs a global tracer provider that writes every finished span to
// w as JSON. The returned func flushes and shuts the provider down.
func Init(w io.Writer) (func(context.Context) error, error) {
	exporter, err := stdout.NewExporter(
		stdout.WithWriter(w),
		stdout.WithPrettyPrint(),
		stdout.WithoutMetricExport(),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing stdout exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
