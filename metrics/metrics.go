// Package metrics sets up OpenTelemetry metrics with an OTLP HTTP exporter
// and holds the application instruments.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// AppMetrics holds all application instruments. A nil *AppMetrics is safe to
// use; every method is a no-op on it.
type AppMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	OrdersCreated    metric.Int64Counter
	CheckoutFailures metric.Int64Counter
	RevenueTotal     metric.Float64Counter

	CacheHits   metric.Int64Counter
	CacheMisses metric.Int64Counter
}

// Init configures the global meter provider with an OTLP HTTP exporter and
// returns the instruments plus a shutdown func. When endpoint is empty the
// instruments are created against the default (no-op) provider and shutdown
// does nothing.
func Init(ctx context.Context, serviceName, endpoint string) (*AppMetrics, func(context.Context) error, error) {
	shutdown := func(context.Context) error { return nil }

	if endpoint != "" {
		res, err := resource.New(ctx,
			resource.WithAttributes(semconv.ServiceName(serviceName)),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create resource: %w", err)
		}

		exporter, err := otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}

		provider := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
				sdkmetric.WithInterval(10*time.Second),
			)),
		)
		otel.SetMeterProvider(provider)
		shutdown = provider.Shutdown
	}

	meter := otel.Meter(serviceName)
	m := &AppMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter("http.server.request.count",
		metric.WithDescription("Total number of HTTP requests"), metric.WithUnit("1")); err != nil {
		return nil, nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"), metric.WithUnit("ms")); err != nil {
		return nil, nil, err
	}
	if m.OrdersCreated, err = meter.Int64Counter("orders_created_total",
		metric.WithDescription("Total number of orders created"), metric.WithUnit("1")); err != nil {
		return nil, nil, err
	}
	if m.CheckoutFailures, err = meter.Int64Counter("checkout_failures_total",
		metric.WithDescription("Total number of failed checkout attempts"), metric.WithUnit("1")); err != nil {
		return nil, nil, err
	}
	if m.RevenueTotal, err = meter.Float64Counter("revenue_total",
		metric.WithDescription("Total revenue from created orders"), metric.WithUnit("USD")); err != nil {
		return nil, nil, err
	}
	if m.CacheHits, err = meter.Int64Counter("cache_hits_total",
		metric.WithDescription("Total number of cache hits"), metric.WithUnit("1")); err != nil {
		return nil, nil, err
	}
	if m.CacheMisses, err = meter.Int64Counter("cache_misses_total",
		metric.WithDescription("Total number of cache misses"), metric.WithUnit("1")); err != nil {
		return nil, nil, err
	}

	return m, shutdown, nil
}

// RecordRequest records one HTTP request.
func (m *AppMetrics) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordOrder records a successful checkout and its revenue.
func (m *AppMetrics) RecordOrder(ctx context.Context, total float64) {
	if m == nil {
		return
	}
	m.OrdersCreated.Add(ctx, 1)
	m.RevenueTotal.Add(ctx, total)
}

// RecordCheckoutFailure records a failed checkout attempt by error code.
func (m *AppMetrics) RecordCheckoutFailure(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.CheckoutFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("error.code", code)))
}

// RecordCacheLookup records a cache hit or miss for a key family.
func (m *AppMetrics) RecordCacheLookup(ctx context.Context, family string, hit bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("cache.family", family))
	if hit {
		m.CacheHits.Add(ctx, 1, attrs)
	} else {
		m.CacheMisses.Add(ctx, 1, attrs)
	}
}
