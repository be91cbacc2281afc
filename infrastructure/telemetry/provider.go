package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/descent/domain/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ErrUnknownExporter is returned for an exporter name the provider cannot build.
var ErrUnknownExporter = errors.New("unknown trace exporter")

// Provider owns the tracer provider installed for the process.
type Provider struct {
	config         config.TelemetryConfig
	version        string
	tracerProvider *sdktrace.TracerProvider
	tracer         *Tracer
	metrics        Metrics
	shutdownFuncs  []func(context.Context) error
}

// ProviderOption configures a Provider.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	writer   io.Writer
	version  string
	exporter sdktrace.SpanExporter
}

// WithWriter directs the stdout exporter to w instead of os.Stdout.
func WithWriter(w io.Writer) ProviderOption {
	return func(o *providerOptions) {
		o.writer = w
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) ProviderOption {
	return func(o *providerOptions) {
		o.version = version
	}
}

// WithSpanExporter overrides the exporter chosen from the config.
func WithSpanExporter(exp sdktrace.SpanExporter) ProviderOption {
	return func(o *providerOptions) {
		o.exporter = exp
	}
}

// NewProvider builds the tracing pipeline selected by cfg.Exporter and
// installs it as the global tracer provider. The "none" exporter yields a
// provider whose tracer is backed by the global no-op implementation.
func NewProvider(ctx context.Context, cfg config.TelemetryConfig, opts ...ProviderOption) (*Provider, error) {
	o := providerOptions{writer: os.Stdout, version: "dev"}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "descent"
	}

	p := &Provider{
		config:  cfg,
		version: o.version,
		metrics: NewMetricsProvider(DefaultMetricsConfig()),
	}

	exporter := o.exporter
	if exporter == nil {
		exp, err := newExporter(ctx, cfg, o.writer)
		if err != nil {
			return nil, err
		}
		exporter = exp
	}
	if exporter == nil {
		p.tracer = NewTracer(otel.GetTracerProvider())
		return p, nil
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(o.version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	p.tracerProvider = tp
	p.tracer = NewTracer(tp)
	p.shutdownFuncs = append(p.shutdownFuncs, tp.Shutdown)

	return p, nil
}

func newExporter(ctx context.Context, cfg config.TelemetryConfig, w io.Writer) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "", config.ExporterNone:
		return nil, nil
	case config.ExporterStdout:
		return stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	case config.ExporterOTLP:
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
		}
		if cfg.Insecure {
			opts = append(opts,
				otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
				otlptracegrpc.WithInsecure(),
			)
		}
		return otlptracegrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Exporter)
	}
}

// sampler maps a rate to a sampler. Zero means the rate was left unset and
// samples everything.
func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate <= 0 || rate >= 1:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// Tracer returns the run tracer.
func (p *Provider) Tracer() *Tracer {
	return p.tracer
}

// Metrics returns the metrics recorder.
func (p *Provider) Metrics() Metrics {
	return p.metrics
}

// Enabled reports whether spans are exported anywhere.
func (p *Provider) Enabled() bool {
	return p.tracerProvider != nil
}

// Shutdown flushes pending spans and releases exporters.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range p.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewNoopProvider returns a provider that records nothing.
func NewNoopProvider() *Provider {
	return &Provider{
		config:  config.Default().Telemetry,
		tracer:  NewTracer(nil),
		metrics: NoopMetricsProvider{},
	}
}
