package clog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"log/slog"
)

// namespaceKey 命名空间在日志输出中的字段名
const namespaceKey = "namespace"

// logger slog 实现（非导出）
type logger struct {
	sl        *slog.Logger
	level     *slog.LevelVar
	namespace string
}

func newLogger(cfg *Config) (Logger, error) {
	level := new(slog.LevelVar)
	if err := setLevelVar(level, cfg.Level); err != nil {
		return nil, err
	}

	var out io.Writer = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	l := &logger{
		sl:        slog.New(handler),
		level:     level,
		namespace: cfg.Namespace,
	}
	if cfg.Namespace != "" {
		l.sl = l.sl.With(slog.String(namespaceKey, cfg.Namespace))
	}
	return l, nil
}

func setLevelVar(v *slog.LevelVar, level string) error {
	switch level {
	case "", "info":
		v.Set(slog.LevelInfo)
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown level: %s", level)
	}
	return nil
}

func (l *logger) log(ctx context.Context, level slog.Level, msg string, fields []Field) {
	if !l.sl.Enabled(ctx, level) {
		return
	}
	l.sl.LogAttrs(ctx, level, msg, fields...)
}

func (l *logger) Debug(msg string, fields ...Field) {
	l.log(context.Background(), slog.LevelDebug, msg, fields)
}

func (l *logger) Info(msg string, fields ...Field) {
	l.log(context.Background(), slog.LevelInfo, msg, fields)
}

func (l *logger) Warn(msg string, fields ...Field) {
	l.log(context.Background(), slog.LevelWarn, msg, fields)
}

func (l *logger) Error(msg string, fields ...Field) {
	l.log(context.Background(), slog.LevelError, msg, fields)
}

func (l *logger) DebugContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelDebug, msg, fields)
}

func (l *logger) InfoContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelInfo, msg, fields)
}

func (l *logger) WarnContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelWarn, msg, fields)
}

func (l *logger) ErrorContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelError, msg, fields)
}

func (l *logger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	attrs := make([]any, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, f)
	}
	return &logger{
		sl:        l.sl.With(attrs...),
		level:     l.level,
		namespace: l.namespace,
	}
}

func (l *logger) WithNamespace(parts ...string) Logger {
	if len(parts) == 0 {
		return l
	}
	ns := strings.Join(parts, ".")
	if l.namespace != "" {
		ns = l.namespace + "." + ns
	}
	return &logger{
		sl:        l.sl.With(slog.String(namespaceKey, ns)),
		level:     l.level,
		namespace: ns,
	}
}

func (l *logger) SetLevel(level string) error {
	return setLevelVar(l.level, level)
}

// discardLogger 丢弃所有日志（非导出）
type discardLogger struct{}

func (d *discardLogger) Debug(msg string, fields ...Field) {}
func (d *discardLogger) Info(msg string, fields ...Field)  {}
func (d *discardLogger) Warn(msg string, fields ...Field)  {}
func (d *discardLogger) Error(msg string, fields ...Field) {}

func (d *discardLogger) DebugContext(ctx context.Context, msg string, fields ...Field) {}
func (d *discardLogger) InfoContext(ctx context.Context, msg string, fields ...Field)  {}
func (d *discardLogger) WarnContext(ctx context.Context, msg string, fields ...Field)  {}
func (d *discardLogger) ErrorContext(ctx context.Context, msg string, fields ...Field) {}

func (d *discardLogger) With(fields ...Field) Logger          { return d }
func (d *discardLogger) WithNamespace(parts ...string) Logger { return d }
func (d *discardLogger) SetLevel(level string) error          { return nil }
