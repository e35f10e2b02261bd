// Package clog 提供基于 log/slog 的结构化日志组件。
//
// clog 是 Fuse 基础层的日志组件，它提供了：
// - 统一的 Logger 接口，支持 Debug/Info/Warn/Error 四个级别
// - 结构化字段：Field 是 slog.Attr 的别名，零额外分配
// - 命名空间：WithNamespace 派生带层级命名空间的子 Logger
// - 动态级别：SetLevel 运行时调整日志级别
// - 多种输出格式：console（开发）与 json（生产）
//
// ## 基本使用
//
//	logger, _ := clog.New(&clog.Config{
//	    Level:  "info",
//	    Format: "console",
//	    Output: "stdout",
//	})
//	logger.Info("breaker created", clog.String("id", "payment-api"))
//
// ## 派生子 Logger
//
//	brkLogger := logger.WithNamespace("breaker").With(clog.String("id", "payment-api"))
package clog

import (
	"context"
	"fmt"
	"time"

	"log/slog"
)

// ========================================
// 接口定义 (Interface Definitions)
// ========================================

// Logger 日志核心接口
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// 带 Context 的日志方法，保留调用方的取消与超时语义
	DebugContext(ctx context.Context, msg string, fields ...Field)
	InfoContext(ctx context.Context, msg string, fields ...Field)
	WarnContext(ctx context.Context, msg string, fields ...Field)
	ErrorContext(ctx context.Context, msg string, fields ...Field)

	// With 创建带有预设字段的子 Logger
	With(fields ...Field) Logger

	// WithNamespace 创建扩展命名空间的子 Logger
	// 命名空间会以 "." 连接追加到现有命名空间后
	WithNamespace(parts ...string) Logger

	// SetLevel 动态调整日志级别（作用于同一棵 Logger 树）
	SetLevel(level string) error
}

// Field 是 slog.Attr 的类型别名，零内存分配
type Field = slog.Attr

// String 创建字符串字段
func String(k, v string) Field { return slog.String(k, v) }

// Int 创建整数字段
func Int(k string, v int) Field { return slog.Int(k, v) }

// Int64 创建 64 位整数字段
func Int64(k string, v int64) Field { return slog.Int64(k, v) }

// Float64 创建浮点数字段
func Float64(k string, v float64) Field { return slog.Float64(k, v) }

// Bool 创建布尔字段
func Bool(k string, v bool) Field { return slog.Bool(k, v) }

// Time 创建时间字段
func Time(k string, v time.Time) Field { return slog.Time(k, v) }

// Duration 创建时间长度字段
func Duration(k string, v time.Duration) Field { return slog.Duration(k, v) }

// Any 创建任意类型字段
func Any(k string, v any) Field { return slog.Any(k, v) }

// Error 将错误简化为仅包含错误消息的字段
func Error(err error) Field {
	if err == nil {
		return slog.String("", "")
	}
	return slog.String("err_msg", err.Error())
}

// ========================================
// 工厂函数 (Factory Functions)
// ========================================

// New 创建一个新的 Logger 实例
//
// config - 日志配置，如果为 nil 会使用默认配置
func New(config *Config) (Logger, error) {
	if config == nil {
		config = NewDevDefaultConfig("fuse")
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return newLogger(config)
}

// Default 返回输出到 stdout 的开发默认 Logger
func Default() Logger {
	logger, err := New(NewDevDefaultConfig("fuse"))
	if err != nil {
		return Discard()
	}
	return logger
}

// Discard 返回一个丢弃所有日志的 Logger，用于测试或显式禁用日志
func Discard() Logger {
	return &discardLogger{}
}
