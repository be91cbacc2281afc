package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/felixgeelhaar/descent"

// Span names and attribute keys.
const (
	SpanRun       = "descent.run"
	SpanDischarge = "descent.discharge"
	SpanSweep     = "descent.sweep"

	EventStep       = "descent.step"
	EventClassified = "descent.classified"

	AttrRunID     = "descent.run_id"
	AttrProblem   = "descent.problem"
	AttrWitness   = "descent.witness"
	AttrStep      = "descent.step"
	AttrFrom      = "descent.from"
	AttrTo        = "descent.to"
	AttrKind      = "descent.kind"
	AttrSteps     = "descent.steps"
	AttrTerminal  = "descent.terminal"
	AttrWitnesses = "descent.witnesses"
)

// Tracer starts spans for runs and records one event per descent step.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a tracer from tp. A nil provider yields a no-op tracer.
func NewTracer(tp trace.TracerProvider) *Tracer {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &Tracer{tracer: tp.Tracer(tracerName)}
}

// StartRun opens the span covering one descent run.
func (t *Tracer) StartRun(ctx context.Context, runID, problem, witness string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanRun, trace.WithAttributes(
		attribute.String(AttrRunID, runID),
		attribute.String(AttrProblem, problem),
		attribute.String(AttrWitness, witness),
	))
}

// StartDischarge opens the span covering the handler call.
func (t *Tracer) StartDischarge(ctx context.Context, kind string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanDischarge, trace.WithAttributes(attribute.String(AttrKind, kind)))
}

// StartSweep opens the span covering a sweep over one family.
func (t *Tracer) StartSweep(ctx context.Context, problem string, witnesses int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanSweep, trace.WithAttributes(
		attribute.String(AttrProblem, problem),
		attribute.Int(AttrWitnesses, witnesses),
	))
}

// Step adds a step event to span.
func Step(span trace.Span, step int, from, to string) {
	span.AddEvent(EventStep, trace.WithAttributes(
		attribute.Int(AttrStep, step),
		attribute.String(AttrFrom, from),
		attribute.String(AttrTo, to),
	))
}

// Classified adds the classification event to span.
func Classified(span trace.Span, kind, pair string) {
	span.AddEvent(EventClassified, trace.WithAttributes(
		attribute.String(AttrKind, kind),
		attribute.String(AttrTerminal, pair),
	))
}

// End closes span, marking it failed when err is non-nil.
func End(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
