// ABOUTME: OpenTelemetry SDK setup with a Prometheus exporter
// ABOUTME: Registers the global MeterProvider and returns its shutdown function
package observe

import (
	"context"

	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ProviderConfig configures the OpenTelemetry SDK
type ProviderConfig struct {
	// ServiceName is reported in telemetry. Default: "i2sout-player".
	ServiceName string

	// ServiceVersion is reported in telemetry
	ServiceVersion string
}

// InitProvider sets up a MeterProvider whose metrics are exported through
// the default Prometheus registry and registers it globally. Call Shutdown
// on the returned provider before exiting.
func InitProvider(ctx context.Context, cfg ProviderConfig) (*sdkmetric.MeterProvider, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "i2sout-player"
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	promExp, err := promexporter.New()
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(promExp),
	)
	otel.SetMeterProvider(mp)

	return mp, nil
}
