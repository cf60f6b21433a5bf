package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	eventsProcessed metric.Int64Counter
	eventsRejected  metric.Int64Counter
	recordsWritten  metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "cloudbill"
	}
	meter := provider.Meter(name)

	eventsProcessed, err := meter.Int64Counter("cloudbill_events_processed_total")
	if err != nil {
		return nil, err
	}
	eventsRejected, err := meter.Int64Counter("cloudbill_events_rejected_total")
	if err != nil {
		return nil, err
	}
	recordsWritten, err := meter.Int64Counter("cloudbill_records_written_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		eventsProcessed: eventsProcessed,
		eventsRejected:  eventsRejected,
		recordsWritten:  recordsWritten,
	}, nil
}

// RecordEventProcessed increments processed event counts per outcome.
func (m *Metrics) RecordEventProcessed(ctx context.Context, resourceType, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("resource_type", strings.TrimSpace(resourceType)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.eventsProcessed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordEventRejected increments rejected event counts per reason.
func (m *Metrics) RecordEventRejected(ctx context.Context, resourceType, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("resource_type", strings.TrimSpace(resourceType)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.eventsRejected.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordBillingRecord increments written billing record counts.
func (m *Metrics) RecordBillingRecord(ctx context.Context, resourceType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("resource_type", strings.TrimSpace(resourceType)))
	m.recordsWritten.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"resource_type": {},
	"outcome":       {},
	"reason":        {},
	"status_code":   {},
	"endpoint":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
