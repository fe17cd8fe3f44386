package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"product-catalog/internal/utils"

	"go.opentelemetry.io/otel/trace"
)

var (
	instance *slog.Logger
	once     sync.Once
	level    = new(slog.LevelVar)
)

// Instance returns the process-wide JSON logger writing to stdout.
func Instance() *slog.Logger {
	once.Do(func() {
		instance = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))
	})

	return instance
}

// SetLevel changes the minimum level of Instance, e.g. "debug" or "warn".
func SetLevel(name string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return err
	}
	level.Set(l)
	return nil
}

// ProductID is the attribute every catalog log line uses for a product id.
func ProductID(id string) slog.Attr {
	return slog.String("product.id", id)
}

func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelDebug, msg, attrs)
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelInfo, msg, attrs)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelWarn, msg, attrs)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelError, msg, attrs)
}

// log writes locally and, when the level is enabled, ships the same entry
// to the remote sink.
func log(ctx context.Context, lvl slog.Level, msg string, attrs []slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	l := Instance()
	if !l.Enabled(ctx, lvl) {
		return
	}

	attrs = enrich(ctx, attrs...)
	l.LogAttrs(ctx, lvl, msg, attrs...)
	sendLog(strings.ToLower(lvl.String()), msg, attrs)
}

// enrich appends trace correlation fields when ctx carries a valid span.
func enrich(ctx context.Context, attrs ...slog.Attr) []slog.Attr {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return attrs
	}
	return append(attrs,
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
		slog.String("hostname", utils.GetHost()),
	)
}
