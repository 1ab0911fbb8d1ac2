// Package observability installs the process-wide slog logger.
//
// Without an exporter, records go to stderr as text or JSON. With an exporter,
// slog is bridged to an OpenTelemetry LoggerProvider and records are exported
// to stdout or an OTLP collector.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// instrumentationName identifies records bridged from slog.
const instrumentationName = "github.com/florianilch/tweetauth"

// Exporter selects where log records are shipped.
type Exporter string

const (
	ExporterNone     Exporter = "none"
	ExporterStdout   Exporter = "stdout"
	ExporterOTLPGRPC Exporter = "otlp-grpc"
	ExporterOTLPHTTP Exporter = "otlp-http"
)

// Config describes the logging setup.
type Config struct {
	Level  slog.Level
	Format string // text or json, used without exporter
	// Exporter defaults to ExporterNone.
	Exporter Exporter
	// Endpoint is the OTLP collector address. Empty uses the exporter's
	// default, which also honors the OTEL_EXPORTER_OTLP_* environment variables.
	Endpoint string
	// Output receives text/json records and stdout-exported records. Defaults to os.Stderr.
	Output io.Writer
}

// ShutdownFunc flushes and releases logging resources.
type ShutdownFunc func(context.Context) error

// Instrument configures slog.Default according to cfg.
func Instrument(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	if cfg.Exporter == "" || cfg.Exporter == ExporterNone {
		handler, err := newHandler(cfg)
		if err != nil {
			return nil, err
		}
		slog.SetDefault(slog.New(handler))
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating %s log exporter: %w", cfg.Exporter, err)
	}

	// A CLI run is short: batch for network exporters, write through for stdout.
	var processor sdklog.Processor
	if cfg.Exporter == ExporterStdout {
		processor = sdklog.NewSimpleProcessor(exporter)
	} else {
		processor = sdklog.NewBatchProcessor(exporter)
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(minsev.NewLogProcessor(processor, severity(cfg.Level))),
	)
	global.SetLoggerProvider(provider)

	slog.SetDefault(slog.New(otelslog.NewHandler(instrumentationName, otelslog.WithLoggerProvider(provider))))

	// Errors inside the OTel SDK (e.g. failed exports) must not recurse into the bridged logger.
	fallback := slog.New(slog.NewTextHandler(cfg.Output, &slog.HandlerOptions{Level: slog.LevelWarn}))
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		fallback.Warn("opentelemetry error", "error", err)
	}))

	return func(ctx context.Context) error {
		return errors.Join(provider.ForceFlush(ctx), provider.Shutdown(ctx))
	}, nil
}

func newHandler(cfg Config) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	switch cfg.Format {
	case "", "text":
		return slog.NewTextHandler(cfg.Output, opts), nil
	case "json":
		return slog.NewJSONHandler(cfg.Output, opts), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}
}

func newExporter(ctx context.Context, cfg Config) (sdklog.Exporter, error) {
	switch cfg.Exporter {
	case ExporterStdout:
		return stdoutlog.New(stdoutlog.WithWriter(cfg.Output))
	case ExporterOTLPGRPC:
		var opts []otlploggrpc.Option
		if cfg.Endpoint != "" {
			opts = append(opts, otlploggrpc.WithEndpoint(cfg.Endpoint))
		}
		return otlploggrpc.New(ctx, opts...)
	case ExporterOTLPHTTP:
		var opts []otlploghttp.Option
		if cfg.Endpoint != "" {
			opts = append(opts, otlploghttp.WithEndpoint(cfg.Endpoint))
		}
		return otlploghttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported log exporter: %s", cfg.Exporter)
	}
}

// severity maps a slog level to the minimum OTel severity to export.
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
