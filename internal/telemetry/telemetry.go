package telemetry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"

	"agro-order-service/internal/config"
	"agro-order-service/internal/logger"
)

const ServiceName = "agro-order-service"

// Shutdown libera exporters y vacía el buffer de Sentry.
type Shutdown func(ctx context.Context) error

// Init configura trazas OTLP (si OTEL_ENABLED) y Sentry (si hay DSN).
// Sin ninguno de los dos devuelve un Shutdown vacío.
func Init(ctx context.Context, cfg *config.Config) (Shutdown, error) {
	var shutdowns []Shutdown

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.AppEnv,
			AttachStacktrace: true,
		})
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		})
		logger.Info("sentry habilitado", zap.String("env", cfg.AppEnv))
	}

	if cfg.OtelEnabled {
		exp, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(cfg.OtelEndpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, err
		}
		res, err := resource.New(ctx,
			resource.WithFromEnv(),
			resource.WithAttributes(
				semconv.ServiceName(ServiceName),
				semconv.DeploymentEnvironment(cfg.AppEnv),
			),
		)
		if err != nil {
			return nil, err
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{},
		))
		shutdowns = append(shutdowns, tp.Shutdown)
		logger.Info("trazas OTLP habilitadas", zap.String("endpoint", cfg.OtelEndpoint))
	}

	return func(ctx context.Context) error {
		var first error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			if err := shutdowns[i](ctx); err != nil && first == nil {
				first = err
			}
		}
		return first
	}, nil
}

// CaptureError envía el error a Sentry si está configurado.
func CaptureError(err error, tags map[string]string) {
	if err == nil || sentry.CurrentHub().Client() == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}
