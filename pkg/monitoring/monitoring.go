package monitoring

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Monitoring interface {
	Start(ctx context.Context)
	Stop(ctx context.Context)
}

type openTelemetry struct {
	logger      *logrus.Logger
	serviceName string
	environment string
	endpoint    string
	provider    *sdktrace.TracerProvider
}

// NewOpenTelemetry builds the tracing lifecycle for the process. An empty
// endpoint disables the exporter, spans then stay in-process only.
func NewOpenTelemetry(logger *logrus.Logger, serviceName, environment, endpoint string) Monitoring {
	return &openTelemetry{
		logger:      logger,
		serviceName: serviceName,
		environment: environment,
		endpoint:    endpoint,
	}
}

// Start implements Monitoring.
func (m *openTelemetry) Start(ctx context.Context) {
	if m.endpoint == "" {
		return
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(m.endpoint))
	if err != nil {
		m.logger.WithContext(ctx).WithError(err).Error("monitoring: otlp exporter is not available")
		return
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(m.serviceName),
			attribute.String("environment", m.environment),
		),
	)
	if err != nil {
		m.logger.WithContext(ctx).WithError(err).Error("monitoring: resource merge failed")
		return
	}

	m.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(m.provider)
}

// Stop implements Monitoring.
func (m *openTelemetry) Stop(ctx context.Context) {
	if m.provider == nil {
		return
	}

	if err := m.provider.Shutdown(ctx); err != nil {
		m.logger.WithContext(ctx).WithError(err).Error("monitoring: tracer provider shutdown failed")
	}
}
