package telemetry

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/descent/domain/config"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer() (*Tracer, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return NewTracer(tp), sr
}

func TestTracer_RunSpanWithSteps(t *testing.T) {
	t.Parallel()

	tracer, sr := newRecordingTracer()

	_, span := tracer.StartRun(context.Background(), "run-1", "imo1988-q6", "(8, 30)")
	Step(span, 1, "(8, 30)", "(2, 8)")
	Step(span, 2, "(2, 8)", "(0, 2)")
	Classified(span, "zero_first_coord", "(0, 2)")
	End(span, nil)

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != SpanRun {
		t.Errorf("span name = %q, want %q", s.Name(), SpanRun)
	}
	if len(s.Events()) != 3 {
		t.Errorf("expected 3 events, got %d", len(s.Events()))
	}
	if s.Events()[0].Name != EventStep {
		t.Errorf("first event = %q, want %q", s.Events()[0].Name, EventStep)
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", s.Status().Code)
	}
}

func TestTracer_EndWithError(t *testing.T) {
	t.Parallel()

	tracer, sr := newRecordingTracer()

	ctx, run := tracer.StartRun(context.Background(), "run-2", "broken", "(1, 2)")
	_, discharge := tracer.StartDischarge(ctx, "on_diagonal")
	End(discharge, errors.New("handler refused"))
	End(run, errors.New("handler refused"))

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	for _, s := range spans {
		if s.Status().Code != codes.Error {
			t.Errorf("%s status = %v, want Error", s.Name(), s.Status().Code)
		}
	}
	if spans[0].Parent().SpanID() != spans[1].SpanContext().SpanID() {
		t.Error("discharge span should be a child of the run span")
	}
}

func TestNewTracer_NilProvider(t *testing.T) {
	t.Parallel()

	tracer := NewTracer(nil)
	_, span := tracer.StartSweep(context.Background(), "p", 3)
	End(span, nil)
	if span.SpanContext().IsValid() {
		t.Error("no-op span should not carry a valid context")
	}
}

func TestSampler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate float64
		want string
	}{
		{0, sdktrace.AlwaysSample().Description()},
		{1, sdktrace.AlwaysSample().Description()},
		{0.25, sdktrace.TraceIDRatioBased(0.25).Description()},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestNewProvider_None(t *testing.T) {
	cfg := config.Default().Telemetry
	p, err := NewProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.Enabled() {
		t.Error("none exporter should not install a tracer provider")
	}
	if p.Tracer() == nil || p.Metrics() == nil {
		t.Error("provider should always expose a tracer and metrics")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewProvider_Stdout(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.Exporter = config.ExporterStdout

	var buf bytes.Buffer
	p, err := NewProvider(context.Background(), cfg, WithWriter(&buf), WithServiceVersion("test"))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if !p.Enabled() {
		t.Fatal("stdout exporter should install a tracer provider")
	}

	_, span := p.Tracer().StartRun(context.Background(), "run-3", "divisor-plus-one", "(2, 5)")
	End(span, nil)

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(SpanRun)) {
		t.Errorf("exported output missing span name, got %q", buf.String())
	}
}

func TestNewProvider_UnknownExporter(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.Exporter = "zipkin"

	_, err := NewProvider(context.Background(), cfg)
	if !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("error = %v, want ErrUnknownExporter", err)
	}
}

func TestNoopProvider(t *testing.T) {
	t.Parallel()

	p := NewNoopProvider()
	if p.Enabled() {
		t.Error("noop provider should not be enabled")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
