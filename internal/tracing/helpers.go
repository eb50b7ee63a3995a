package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartSearchSpan creates a span for one ranking call over the given entity
// ("circle" or "meetup"). The returned end function records the error and
// result count.
//
// Example usage:
//
//	ctx, end := tracing.StartSearchSpan(ctx, "circle")
//	results, err := ...
//	end(err, len(results))
func StartSearchSpan(ctx context.Context, entity string) (context.Context, func(err error, results int)) {
	tracer := otel.Tracer("discovery/search")

	ctx, span := tracer.Start(ctx, "search "+entity,
		trace.WithAttributes(attribute.String("search.entity", entity)),
	)

	return ctx, func(err error, results int) {
		span.SetAttributes(attribute.Int("search.results", results))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// StartStoreSpan creates a span for a collaborator call (record store fetch
// or history persistence). Returns the new context and a function to end
// the span.
func StartStoreSpan(ctx context.Context, operation string) (context.Context, func(error)) {
	tracer := otel.Tracer("discovery/store")

	ctx, span := tracer.Start(ctx, operation,
		trace.WithSpanKind(trace.SpanKindClient),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// SetAttributes sets attributes on the current span.
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attrs...)
}
