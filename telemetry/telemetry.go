// Package telemetry defines the logging, metrics, and tracing seams for the
// collaborators; engine.NewWasmEngine takes its Logger. The validator facade itself
// stays pure and never imports this package — per the concurrency model, the
// core performs no I/O.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Logger is a structured, leveled logger. Implementations should be safe for
// concurrent use.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...any)
	Info(ctx context.Context, msg string, fields ...any)
	Warn(ctx context.Context, msg string, fields ...any)
	Error(ctx context.Context, msg string, fields ...any)
}

// Metrics records counters and gauges for the engine and persistence layers.
type Metrics interface {
	IncrCounter(ctx context.Context, name string, tags ...string)
	RecordGauge(ctx context.Context, name string, value float64, tags ...string)
}

// Tracer starts spans around component load, epoch ticks, and persistence
// round trips.
type Tracer interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span)
}

// Span is the narrowed subset of trace.Span this package needs, kept as its
// own interface so callers can wrap a real OTEL span or a test double.
type Span interface {
	End(opts ...trace.SpanEndOption)
	SetStatus(code codes.Code, description string)
	RecordError(err error, opts ...trace.EventOption)
}

// otelSpan adapts a real trace.Span to Span.
type otelSpan struct {
	span trace.Span
}

// WrapSpan adapts a trace.Span from a real OTEL tracer to Span.
func WrapSpan(span trace.Span) Span {
	return otelSpan{span: span}
}

func (s otelSpan) End(opts ...trace.SpanEndOption)                       { s.span.End(opts...) }
func (s otelSpan) SetStatus(code codes.Code, description string)         { s.span.SetStatus(code, description) }
func (s otelSpan) RecordError(err error, opts ...trace.EventOption)       { s.span.RecordError(err, opts...) }

// otelTracer adapts a real trace.Tracer to Tracer.
type otelTracer struct {
	tracer trace.Tracer
}

// WrapTracer adapts an OTEL trace.Tracer to Tracer.
func WrapTracer(tracer trace.Tracer) Tracer {
	return otelTracer{tracer: tracer}
}

func (t otelTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, opts...)
	return ctx, WrapSpan(span)
}

// otelMetrics adapts an OTEL metric.Meter to Metrics, lazily creating and
// caching one instrument per counter/gauge name on first use.
type otelMetrics struct {
	meter metric.Meter

	mu       sync.Mutex
	counters map[string]metric.Int64Counter
	gauges   map[string]metric.Float64Gauge
}

// WrapMetrics adapts an OTEL metric.Meter to Metrics.
func WrapMetrics(meter metric.Meter) Metrics {
	return &otelMetrics{
		meter:    meter,
		counters: make(map[string]metric.Int64Counter),
		gauges:   make(map[string]metric.Float64Gauge),
	}
}

func toAttributes(tags []string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(tags))
	for i := 0; i+1 < len(tags); i += 2 {
		attrs = append(attrs, attribute.String(tags[i], tags[i+1]))
	}
	return attrs
}

func (m *otelMetrics) IncrCounter(ctx context.Context, name string, tags ...string) {
	m.mu.Lock()
	counter, ok := m.counters[name]
	if !ok {
		var err error
		counter, err = m.meter.Int64Counter(name)
		if err != nil {
			m.mu.Unlock()
			return
		}
		m.counters[name] = counter
	}
	m.mu.Unlock()
	counter.Add(ctx, 1, metric.WithAttributes(toAttributes(tags)...))
}

func (m *otelMetrics) RecordGauge(ctx context.Context, name string, value float64, tags ...string) {
	m.mu.Lock()
	gauge, ok := m.gauges[name]
	if !ok {
		var err error
		gauge, err = m.meter.Float64Gauge(name)
		if err != nil {
			m.mu.Unlock()
			return
		}
		m.gauges[name] = gauge
	}
	m.mu.Unlock()
	gauge.Record(ctx, value, metric.WithAttributes(toAttributes(tags)...))
}

// Noop is a Logger/Metrics implementation that discards everything, used
// where telemetry is optional (e.g. NewWasmEngine's default Logger).
type Noop struct{}

func (Noop) Debug(context.Context, string, ...any) {}
func (Noop) Info(context.Context, string, ...any)  {}
func (Noop) Warn(context.Context, string, ...any)  {}
func (Noop) Error(context.Context, string, ...any) {}

func (Noop) IncrCounter(context.Context, string, ...string)            {}
func (Noop) RecordGauge(context.Context, string, float64, ...string) {}
