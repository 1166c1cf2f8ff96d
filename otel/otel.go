package otel

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	config "github.com/inference-gateway/calendar-assistant/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otel "go.opentelemetry.io/otel"
	attribute "go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	resource "go.opentelemetry.io/otel/sdk/resource"
)

type MeterProvider = sdkmetric.MeterProvider

//go:generate mockgen -source=otel.go -destination=../tests/mocks/otel.go -package=mocks
type OpenTelemetry interface {
	Init(config config.Config) error
	Handler() http.Handler
	RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration)
	RecordIntent(ctx context.Context, action, source string)
	RecordMatches(ctx context.Context, action, outcome string, matches int)
	RecordCompletion(ctx context.Context, provider string, duration time.Duration, err error)
}

type OpenTelemetryImpl struct {
	meterProvider *MeterProvider
	registry      *prometheus.Registry

	requestCounter    metric.Int64Counter
	requestHistogram  metric.Float64Histogram
	intentCounter     metric.Int64Counter
	matchHistogram    metric.Int64Histogram
	completionLatency metric.Float64Histogram
}

func (o *OpenTelemetryImpl) Init(config config.Config) error {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(resource.NewSchemaless(
			attribute.String("service.name", config.ApplicationName),
			attribute.String("deployment.environment", config.Environment),
		)),
	)

	otel.SetMeterProvider(mp)
	o.meterProvider = mp
	o.registry = registry

	meter := mp.Meter("calendar-assistant")

	// Durations are recorded in milliseconds
	timeUnit := "ms"

	var errs []error
	o.requestCounter, err = meter.Int64Counter(
		"assistant.requests",
		metric.WithDescription("Number of handled HTTP requests"),
	)
	errs = append(errs, err)

	o.requestHistogram, err = meter.Float64Histogram(
		"assistant.request.duration",
		metric.WithDescription("Time spent handling an HTTP request"),
		metric.WithUnit(timeUnit),
	)
	errs = append(errs, err)

	o.intentCounter, err = meter.Int64Counter(
		"assistant.intents",
		metric.WithDescription("Resolved intents by action and resolution path"),
	)
	errs = append(errs, err)

	o.matchHistogram, err = meter.Int64Histogram(
		"assistant.matches",
		metric.WithDescription("Number of events matched for update and delete requests"),
	)
	errs = append(errs, err)

	o.completionLatency, err = meter.Float64Histogram(
		"completion.duration",
		metric.WithDescription("Time spent waiting for the completion backend"),
		metric.WithUnit(timeUnit),
	)
	errs = append(errs, err)

	return errors.Join(errs...)
}

// Handler serves the collected metrics in the Prometheus exposition format
func (o *OpenTelemetryImpl) Handler() http.Handler {
	if o.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}

func (o *OpenTelemetryImpl) GetMeter(name string) metric.Meter {
	if o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Meter(name)
}

func (o *OpenTelemetryImpl) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if o.requestCounter == nil || o.requestHistogram == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	)
	o.requestCounter.Add(ctx, 1, attrs)
	o.requestHistogram.Record(ctx, milliseconds(duration), attrs)
}

func (o *OpenTelemetryImpl) RecordIntent(ctx context.Context, action, source string) {
	if o.intentCounter == nil {
		return
	}
	o.intentCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("source", source),
	))
}

func (o *OpenTelemetryImpl) RecordMatches(ctx context.Context, action, outcome string, matches int) {
	if o.matchHistogram == nil {
		return
	}
	o.matchHistogram.Record(ctx, int64(matches), metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

func (o *OpenTelemetryImpl) RecordCompletion(ctx context.Context, provider string, duration time.Duration, err error) {
	if o.completionLatency == nil {
		return
	}
	o.completionLatency.Record(ctx, milliseconds(duration), metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.Bool("failed", err != nil),
	))
}

// Shutdown flushes and stops the meter provider
func (o *OpenTelemetryImpl) Shutdown(ctx context.Context) error {
	if o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// NoopTelemetry satisfies OpenTelemetry without recording anything
type NoopTelemetry struct{}

func NewNoopTelemetry() OpenTelemetry { return NoopTelemetry{} }

func (NoopTelemetry) Init(config.Config) error { return nil }

func (NoopTelemetry) Handler() http.Handler { return http.NotFoundHandler() }

func (NoopTelemetry) RecordRequest(context.Context, string, string, int, time.Duration) {}

func (NoopTelemetry) RecordIntent(context.Context, string, string) {}

func (NoopTelemetry) RecordMatches(context.Context, string, string, int) {}

func (NoopTelemetry) RecordCompletion(context.Context, string, time.Duration, error) {}
