// Package otel wires execution events into OpenTelemetry traces: one span
// per operation and one child span per resolver invocation.
package otel

import (
	"context"
	"sync"

	"github.com/hanpama/gqlexec/eventbus"
	"github.com/hanpama/gqlexec/events"
	"github.com/hanpama/gqlexec/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Setup configures an OTLP trace exporter and subscribes span handlers to
// the event bus. An empty endpoint disables telemetry. The returned function
// flushes and shuts the provider down.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("gqlexec")}
	sub.register()

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer       trace.Tracer
	opSpans      sync.Map // request id -> trace.Span
	resolveSpans sync.Map // request id + "\x00" + path -> trace.Span
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.ExecutionStart) {
		rid, _ := reqid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "graphql.operation")
		span.SetAttributes(
			attribute.String("graphql.operation.name", e.OperationName),
			attribute.String("graphql.operation.type", e.OperationType),
		)
		s.opSpans.Store(rid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.ExecutionFinish) {
		rid, _ := reqid.FromContext(ctx)
		v, ok := s.opSpans.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.Int("graphql.error_count", e.ErrorCount))
		span.End()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.ResolveStart) {
		rid, _ := reqid.FromContext(ctx)
		parent := ctx
		if v, ok := s.opSpans.Load(rid); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		}
		_, span := s.tracer.Start(parent, "graphql.resolve")
		span.SetAttributes(
			attribute.String("graphql.field.parent_type", e.ParentType),
			attribute.String("graphql.field.name", e.Field),
			attribute.String("graphql.field.path", e.Path),
		)
		s.resolveSpans.Store(rid+"\x00"+e.Path, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.ResolveFinish) {
		rid, _ := reqid.FromContext(ctx)
		v, ok := s.resolveSpans.LoadAndDelete(rid + "\x00" + e.Path)
		if !ok {
			return
		}
		span := v.(trace.Span)
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})
}
