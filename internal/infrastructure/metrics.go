package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "dashpulse"

// Metrics holds the OpenTelemetry meter provider and the instruments used
// across the two pipelines, exported in Prometheus exposition format.
type Metrics struct {
	provider *sdkmetric.MeterProvider

	// Handler serves /metrics
	Handler http.Handler

	loadDuration metric.Float64Histogram
	sourceFetch  metric.Int64Counter
	gdpFallback  metric.Int64Counter
	httpRequests metric.Int64Counter
}

// NewMetrics builds the meter provider with a Prometheus reader and creates
// the pipeline instruments.
func NewMetrics() (*Metrics, error) {
	// Dedicated registry so multiple instances never collide on the
	// default registerer.
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(meterName)

	loadDuration, err := meter.Float64Histogram("pipeline_load_duration_seconds",
		metric.WithDescription("Duration of indicator pipeline loads"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	sourceFetch, err := meter.Int64Counter("source_fetch_total",
		metric.WithDescription("Remote source fetches by source and outcome"))
	if err != nil {
		return nil, err
	}

	gdpFallback, err := meter.Int64Counter("gdp_fallback_total",
		metric.WithDescription("Times the GDP per-capita fallback computation ran"))
	if err != nil {
		return nil, err
	}

	httpRequests, err := meter.Int64Counter("http_requests_total",
		metric.WithDescription("HTTP requests by route and status"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		provider:     provider,
		Handler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		loadDuration: loadDuration,
		sourceFetch:  sourceFetch,
		gdpFallback:  gdpFallback,
		httpRequests: httpRequests,
	}, nil
}

// RecordLoadDuration records a completed pipeline load
func (m *Metrics) RecordLoadDuration(ctx context.Context, pipeline string, d time.Duration) {
	if m == nil {
		return
	}
	m.loadDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("pipeline", pipeline)))
}

// RecordSourceFetch records one remote fetch attempt
func (m *Metrics) RecordSourceFetch(ctx context.Context, source string, ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.sourceFetch.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome)))
}

// RecordGDPFallback records one execution of the GDP fallback path
func (m *Metrics) RecordGDPFallback(ctx context.Context) {
	if m == nil {
		return
	}
	m.gdpFallback.Add(ctx, 1)
}

// RecordHTTPRequest records one served request
func (m *Metrics) RecordHTTPRequest(ctx context.Context, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", route),
		attribute.Int("status", status)))
}

// Shutdown flushes and stops the meter provider
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
