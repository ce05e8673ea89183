package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redactedPlaceholder = "[redacted]"

// Logger is the subset of slog the adapter logs through.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New returns a Logger backed by logger. Passing nil binds to slog.Default().
func New(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{logger: logger}
}

// Discard returns a Logger that drops every record.
func Discard() Logger {
	return New(slog.New(slog.DiscardHandler))
}

type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *slogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *slogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *slogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

// NewZap returns a Logger backed by logger. Passing nil yields zap.NewNop().
// The context is ignored; zap has no context-aware entry points.
func NewZap(logger *zap.Logger) Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapLogger{sugar: logger.Sugar()}
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l *zapLogger) Debug(_ context.Context, msg string, args ...any) {
	l.sugar.Debugw(msg, zapArgs(args)...)
}

func (l *zapLogger) Info(_ context.Context, msg string, args ...any) {
	l.sugar.Infow(msg, zapArgs(args)...)
}

func (l *zapLogger) Warn(_ context.Context, msg string, args ...any) {
	l.sugar.Warnw(msg, zapArgs(args)...)
}

func (l *zapLogger) Error(_ context.Context, msg string, args ...any) {
	l.sugar.Errorw(msg, zapArgs(args)...)
}

func (l *zapLogger) With(args ...any) Logger {
	return &zapLogger{sugar: l.sugar.With(zapArgs(args)...)}
}

// zapArgs turns slog.Attr values into zap fields so Redacted works with both
// backends. Plain key/value pairs pass through unchanged.
func zapArgs(args []any) []any {
	out := make([]any, 0, len(args))
	for _, a := range args {
		if attr, ok := a.(slog.Attr); ok {
			out = append(out, zap.Any(attr.Key, attr.Value.Resolve().Any()))
			continue
		}
		out = append(out, a)
	}
	return out
}

// Redacted marks an attribute whose value was intentionally left out.
func Redacted(key string) slog.Attr {
	return slog.String(key, redactedPlaceholder)
}

// Placeholder returns the canonical string that represents a redacted value.
func Placeholder() string {
	return redactedPlaceholder
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("logging: unknown level %q", s)
	}
	return lvl, nil
}

// Build returns a Logger writing to w in the named format: "text" and "json"
// use slog handlers, "zap" uses a zap JSON core. The returned function
// flushes buffered output and is safe to call more than once.
func Build(format, level string, w io.Writer) (Logger, func(), error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return New(slog.New(slog.NewTextHandler(w, opts))), func() {}, nil
	case "json":
		return New(slog.New(slog.NewJSONHandler(w, opts))), func() {}, nil
	case "zap":
		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), zapLevel(lvl))
		z := zap.New(core)
		return NewZap(z), func() { _ = z.Sync() }, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown format %q", format)
	}
}

func zapLevel(lvl slog.Level) zapcore.Level {
	switch {
	case lvl <= slog.LevelDebug:
		return zapcore.DebugLevel
	case lvl <= slog.LevelInfo:
		return zapcore.InfoLevel
	case lvl <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
