package tracer

import (
	"context"
	"io"
	"log/slog"
	"os"

	"product-catalog/internal/config"
	"product-catalog/internal/logger"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"google.golang.org/grpc"
)

// Stdout is where spans go when no OTLP endpoint is configured.
var Stdout io.Writer = os.Stdout

var pyroLogrus = func() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}()

func newExporter(ctx context.Context, cfg *config.Config) (trace.SpanExporter, error) {
	if cfg.RemoteTraceRpcURI == "" {
		return stdouttrace.New(stdouttrace.WithWriter(Stdout))
	}
	return otlptracegrpc.New(ctx,
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(cfg.RemoteTraceRpcURI),
		otlptracegrpc.WithCompressor("gzip"),
		otlptracegrpc.WithDialOption(grpc.WithUserAgent(cfg.AppName)),
	)
}

// Init installs the global tracer provider and propagators and starts
// the profiler when configured. The returned function flushes and stops
// both.
func Init(ctx context.Context, cfg *config.Config) (func(context.Context), error) {
	log := logger.Instance()

	exp, err := newExporter(ctx, cfg)
	if err != nil {
		log.Error("Failed to create trace exporter", slog.String("error", err.Error()))
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.AppName),
			attribute.String("env", "production"),
		),
	)
	if err != nil {
		log.Error("Failed to create resource", slog.String("error", err.Error()))
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)

	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp))
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("OpenTelemetry Tracer initialized", slog.Bool("otlp", cfg.RemoteTraceRpcURI != ""))

	var profiler *pyroscope.Profiler
	if cfg.RemoteProfilingHttpURI != "" {
		profiler, err = pyroscope.Start(pyroscope.Config{
			ApplicationName: cfg.AppName,
			ServerAddress:   cfg.RemoteProfilingHttpURI,
			Logger:          pyroLogrus,
		})
		if err != nil {
			log.Error("Pyroscope failed to start", slog.String("error", err.Error()))
		} else {
			log.Info("Pyroscope started successfully")
		}
	}

	return func(ctx context.Context) {
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", slog.String("error", err.Error()))
		}
		if profiler != nil {
			if err := profiler.Stop(); err != nil {
				log.Error("Error stopping profiler", slog.String("error", err.Error()))
			}
		}
	}, nil
}
