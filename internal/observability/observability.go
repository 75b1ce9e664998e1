// Package observability installs the process-wide slog logger.
//
// Three formats are supported: text and json write to stderr, otel routes
// slog records through an OpenTelemetry log pipeline — to the endpoint in
// the standard OTEL_EXPORTER_OTLP_* environment variables when one is
// configured, to stdout otherwise.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const loggerName = "claude-token-refresh"

// ShutdownFunc flushes any buffered log records.
type ShutdownFunc func(context.Context) error

// Instrument sets the process-wide default slog logger. The returned
// ShutdownFunc must be called before exit so exported records are flushed.
func Instrument(level slog.Level, format string) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }

	switch format {
	case "text":
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return noop, nil
	case "json":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return noop, nil
	case "otel":
		return instrumentOTel(level)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func instrumentOTel(level slog.Level) (ShutdownFunc, error) {
	ctx := context.Background()

	var exporter sdklog.Exporter
	var err error
	switch {
	case os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" &&
		os.Getenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT") == "":
		exporter, err = stdoutlog.New()
	case os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL") == "grpc":
		exporter, err = otlploggrpc.New(ctx)
	default:
		exporter, err = otlploghttp.New(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("creating log exporter: %w", err)
	}

	// A one-shot CLI emits a handful of records; export them as they come
	// instead of batching.
	processor := minsev.NewLogProcessor(sdklog.NewSimpleProcessor(exporter), severity(level))
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(processor))

	slog.SetDefault(slog.New(otelslog.NewHandler(loggerName, otelslog.WithLoggerProvider(provider))))
	return provider.Shutdown, nil
}

// severity maps an slog level onto the minimum OpenTelemetry severity.
func severity(level slog.Level) minsev.Severity {
	switch {
	case level <= slog.LevelDebug:
		return minsev.SeverityDebug
	case level <= slog.LevelInfo:
		return minsev.SeverityInfo
	case level <= slog.LevelWarn:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}
