package metrics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/ibrahim/dbpulse"

// ObserveFunc reports a single observed value for a gauge, such as the
// aggregate stock quantity or the order count. Implemented by repositories.
type ObserveFunc func(ctx context.Context) (int64, error)

// Metrics holds the business instruments: orders created, revenue
// accumulated, and observable gauges over total stock and total orders.
// These are observational hooks; every failure here is logged and swallowed
// so metrics can never fail an order.
type Metrics struct {
	ordersCreated metric.Int64Counter
	revenue       metric.Float64Counter
	logger        *zap.Logger
}

// New registers the instruments against the global meter provider. When no
// provider has been installed the no-op meter stands in and every recording
// is a cheap no-op.
func New(logger *zap.Logger, stockTotal, ordersTotal ObserveFunc) *Metrics {
	meter := otel.Meter(instrumentationName)
	m := &Metrics{logger: logger}

	var err error
	m.ordersCreated, err = meter.Int64Counter("dbpulse.orders.created",
		metric.WithDescription("Total number of orders created"),
		metric.WithUnit("{order}"))
	if err != nil {
		logger.Warn("register orders counter failed", zap.Error(err))
	}
	m.revenue, err = meter.Float64Counter("dbpulse.revenue.total",
		metric.WithDescription("Total revenue from created orders"))
	if err != nil {
		logger.Warn("register revenue counter failed", zap.Error(err))
	}

	registerGauge(meter, logger, "dbpulse.inventory.total",
		"Aggregate stock quantity across active products", "{item}", stockTotal)
	registerGauge(meter, logger, "dbpulse.orders.total",
		"Number of orders in the system", "{order}", ordersTotal)
	return m
}

func registerGauge(meter metric.Meter, logger *zap.Logger, name, desc, unit string, observe ObserveFunc) {
	_, err := meter.Int64ObservableGauge(name,
		metric.WithDescription(desc),
		metric.WithUnit(unit),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			value, err := observe(ctx)
			if err != nil {
				logger.Warn("gauge observation failed", zap.String("gauge", name), zap.Error(err))
				return nil
			}
			obs.Observe(value)
			return nil
		}))
	if err != nil {
		logger.Warn("register gauge failed", zap.String("gauge", name), zap.Error(err))
	}
}

// OrderCreated records one created order and its total as revenue.
func (m *Metrics) OrderCreated(ctx context.Context, total decimal.Decimal) {
	if m == nil {
		return
	}
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
	if m.revenue != nil {
		m.revenue.Add(ctx, total.InexactFloat64())
	}
}

// SetupProvider installs a global meter provider that exports over
// OTLP/HTTP to the given endpoint. The returned shutdown flushes pending
// metrics. Callers skip this entirely when no endpoint is configured.
func SetupProvider(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("dbpulse"),
		),
	)
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)
	return provider.Shutdown, nil
}
