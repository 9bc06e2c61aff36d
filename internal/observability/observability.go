// Package observability configures process-wide logging.
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
const instrumentationName = "github.com/florianilch/taskdesk"

// ShutdownFunc flushes and stops log export.
type ShutdownFunc func(context.Context) error

// Option configures Instrument.
type Option func(*settings)

type settings struct {
	writer io.Writer
}

// WithWriter sets where text and JSON records are written. os.Stderr if not provided.
// The stdout exporter writes there as well.
func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		s.writer = w
	}
}

// Instrument installs the default slog logger. Records go to stderr as text or
// JSON and, unless exporter is "none" or empty, are bridged to OpenTelemetry.
func Instrument(level slog.Level, format, exporter string, opts ...Option) (ShutdownFunc, error) {
	logger, shutdown, err := newLogger(context.Background(), level, format, exporter, opts...)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return shutdown, nil
}

func newLogger(ctx context.Context, level slog.Level, format, exporter string, opts ...Option) (*slog.Logger, ShutdownFunc, error) {
	s := &settings{writer: os.Stderr}
	for _, opt := range opts {
		opt(s)
	}

	local, err := localHandler(s.writer, level, format)
	if err != nil {
		return nil, nil, err
	}

	if exporter == "" || exporter == "none" {
		return slog.New(local), func(context.Context) error { return nil }, nil
	}

	logExporter, err := newExporter(ctx, exporter, s.writer)
	if err != nil {
		return nil, nil, err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(minsev.NewLogProcessor(sdklog.NewBatchProcessor(logExporter), severity(level))),
	)
	global.SetLoggerProvider(provider)
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		// Avoid the default logger here: it is bridged to the failing exporter.
		_, _ = fmt.Fprintf(s.writer, "otel: %v\n", err)
	}))

	handler := fanout{local, otelslog.NewHandler(instrumentationName, otelslog.WithLoggerProvider(provider))}
	return slog.New(handler), provider.Shutdown, nil
}

func localHandler(w io.Writer, level slog.Level, format string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}

func newExporter(ctx context.Context, name string, w io.Writer) (sdklog.Exporter, error) {
	switch name {
	case "stdout":
		return stdoutlog.New(stdoutlog.WithWriter(w))
	case "otlphttp":
		// Endpoint and headers come from the standard OTEL_EXPORTER_OTLP_* variables.
		return otlploghttp.New(ctx)
	case "otlpgrpc":
		return otlploggrpc.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported log exporter: %s", name)
	}
}

// severity maps a slog level onto the OpenTelemetry severity scale.
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

// fanout sends every record to all handlers that accept its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
