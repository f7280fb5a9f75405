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
	statusTransitions metric.Int64Counter
	paymentsRecorded  metric.Int64Counter
	paymentsSettled   metric.Int64Counter
	notifications     metric.Int64Counter
	rateLimitDenied   metric.Int64Counter
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
		name = "foodzippy"
	}
	meter := provider.Meter(name)

	statusTransitions, err := meter.Int64Counter("foodzippy_status_transitions_total")
	if err != nil {
		return nil, err
	}
	paymentsRecorded, err := meter.Int64Counter("foodzippy_payments_recorded_total")
	if err != nil {
		return nil, err
	}
	paymentsSettled, err := meter.Int64Counter("foodzippy_payments_settled_total")
	if err != nil {
		return nil, err
	}
	notifications, err := meter.Int64Counter("foodzippy_notifications_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("foodzippy_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		statusTransitions: statusTransitions,
		paymentsRecorded:  paymentsRecorded,
		paymentsSettled:   paymentsSettled,
		notifications:     notifications,
		rateLimitDenied:   rateLimitDenied,
	}, nil
}

// RecordStatusTransition increments visit-status transition counts.
func (m *Metrics) RecordStatusTransition(ctx context.Context, toStatus string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("visit_status", strings.TrimSpace(toStatus)))
	m.statusTransitions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPaymentRecorded increments appended payment record counts.
func (m *Metrics) RecordPaymentRecorded(ctx context.Context, paymentType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("payment_type", strings.TrimSpace(paymentType)))
	m.paymentsRecorded.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPaymentsSettled adds settled payment counts.
func (m *Metrics) RecordPaymentsSettled(ctx context.Context, count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.paymentsSettled.Add(ctx, count)
}

// RecordNotification increments stored notification counts.
func (m *Metrics) RecordNotification(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("kind", strings.TrimSpace(kind)))
	m.notifications.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitDenied increments rate limit deny counts.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("endpoint", strings.TrimSpace(endpoint)))
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
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
	"visit_status": {},
	"payment_type": {},
	"kind":         {},
	"endpoint":     {},
	"status_code":  {},
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
