package store

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type instruments struct {
	ops      metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstruments(meter metric.Meter) instruments {
	ops, _ := meter.Int64Counter("userdb.store.ops",
		metric.WithDescription("Statements issued against the users table"),
		metric.WithUnit("{statement}"),
	)
	errs, _ := meter.Int64Counter("userdb.store.errors",
		metric.WithDescription("Statements that returned an error"),
		metric.WithUnit("{error}"),
	)
	duration, _ := meter.Float64Histogram("userdb.store.duration",
		metric.WithDescription("Statement duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 10, 50, 100, 500),
	)
	return instruments{ops: ops, errors: errs, duration: duration}
}

// observe runs fn inside a span and records its outcome. fn holds the
// Store's only connection, so a nested call fails with ErrBusy instead of
// waiting for it forever.
func (s *Store) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	if !s.active.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.active.Store(false)

	ctx, span := s.tracer.Start(ctx, "userdb."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "sqlite"),
			attribute.String("db.operation", op),
		),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	attrs := metric.WithAttributes(attribute.String("db.operation", op))
	if s.inst.ops != nil {
		s.inst.ops.Add(ctx, 1, attrs)
	}
	if s.inst.duration != nil {
		s.inst.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	}

	if err != nil {
		if s.inst.errors != nil {
			s.inst.errors.Add(ctx, 1, attrs)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.LogAttrs(ctx, slog.LevelError, "statement failed",
			slog.String("op", op),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "statement executed",
		slog.String("op", op),
		slog.Duration("duration", elapsed),
	)
	return nil
}
