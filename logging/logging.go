// Package logging wraps a shared zap logger and mirrors its output to an
// OTLP collector when one is reachable.
package logging

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "ticketing-payments"

// logger stays a nop until InitLogger runs so library code can log safely
var logger = zap.NewNop()
var loggerProvider *sdklog.LoggerProvider

// InitLogger builds the production zap logger and, best-effort, an OTLP log
// pipeline. An unreachable collector is not fatal; logs then go to stdout
// only.
func InitLogger() error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "msg"
	config.EncoderConfig.LevelKey = "level"

	var err error
	logger, err = config.Build(
		zap.AddCallerSkip(1), // callers should see their own call site, not this package
	)
	if err != nil {
		return err
	}

	initLogExport()
	return nil
}

func initLogExport() {
	ctx := context.Background()

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "otel-collector:4317"
	}

	exporter, err := otlploggrpc.New(ctx,
		otlploggrpc.WithEndpoint(otlpEndpoint),
		otlploggrpc.WithInsecure(),
	)
	if err != nil {
		logger.Warn("OTLP log exporter unavailable, logging to stdout only", zap.Error(err))
		return
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithAttributes(),
	)
	if err != nil {
		logger.Warn("Failed to build telemetry resource", zap.Error(err))
		return
	}

	loggerProvider = sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	)
	global.SetLoggerProvider(loggerProvider)

	logger.Info("OTLP logging configured", zap.String("endpoint", otlpEndpoint))
}

// GetLogger returns the shared logger
func GetLogger() *zap.Logger {
	return logger
}

func withService() *zap.Logger {
	return logger.With(zap.String("service", serviceName))
}

// WithTraceContext returns the shared logger enriched with the span's trace
// and span ids, so log lines correlate with traces.
func WithTraceContext(span trace.Span) *zap.Logger {
	sc := span.SpanContext()
	if !sc.IsValid() {
		return withService()
	}
	return withService().With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

// Info logs at info level with the service field attached
func Info(msg string, fields ...zap.Field) {
	withService().Info(msg, fields...)
}

// Warn logs at warn level with the service field attached
func Warn(msg string, fields ...zap.Field) {
	withService().Warn(msg, fields...)
}

// Error logs at error level with the service field attached
func Error(msg string, fields ...zap.Field) {
	withService().Error(msg, fields...)
}

// Fatal logs at fatal level and exits
func Fatal(msg string, fields ...zap.Field) {
	withService().Fatal(msg, fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return logger.Sync()
}

// Shutdown stops the OTLP log pipeline, flushing pending records
func Shutdown(ctx context.Context) error {
	if loggerProvider != nil {
		return loggerProvider.Shutdown(ctx)
	}
	return nil
}
