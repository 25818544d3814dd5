// Package telemetry builds OpenTelemetry providers that export the store's
// spans and metrics as JSON to a writer.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServiceName = "userdb"

	instrumentationName = "github.com/qntx/userdb"
)

// Providers owns a tracer and a meter provider.
type Providers struct {
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// NewStdout returns providers that write each span to w as it ends and all
// metrics once on Shutdown.
func NewStdout(w io.Writer) (*Providers, error) {
	res := resource.NewSchemaless(attribute.String("service.name", ServiceName))

	spans, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("trace exporter: %w", err)
	}
	metrics, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}

	return &Providers{
		tp: sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSyncer(spans),
		),
		mp: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metrics)),
		),
	}, nil
}

func (p *Providers) Tracer() trace.Tracer { return p.tp.Tracer(instrumentationName) }

func (p *Providers) Meter() metric.Meter { return p.mp.Meter(instrumentationName) }

// Shutdown flushes pending data and stops both providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return errors.Join(p.tp.Shutdown(ctx), p.mp.Shutdown(ctx))
}
