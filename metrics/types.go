package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// Counter 计数器接口，记录只增不减的累计值
type Counter interface {
	// Inc 将计数器增加 1
	Inc(ctx context.Context, labels ...Label)

	// Add 将计数器增加给定的值
	Add(ctx context.Context, val float64, labels ...Label)
}

// Gauge 仪表盘接口，记录可任意增减的瞬时值
type Gauge interface {
	// Set 将 gauge 设置为给定的值
	Set(ctx context.Context, val float64, labels ...Label)

	// Inc 将 gauge 增加 1
	Inc(ctx context.Context, labels ...Label)

	// Dec 将 gauge 减少 1
	Dec(ctx context.Context, labels ...Label)
}

// Histogram 直方图接口，记录值的分布情况
type Histogram interface {
	// Record 在直方图中记录一个值
	Record(ctx context.Context, val float64, labels ...Label)
}

// Meter 指标创建工厂接口
// 通过 Meter 创建的指标是线程安全的，可在多个 goroutine 中并发使用
type Meter interface {
	// Counter 创建计数器实例
	Counter(name string, desc string, opts ...MetricOption) (Counter, error)

	// Gauge 创建仪表盘实例
	Gauge(name string, desc string, opts ...MetricOption) (Gauge, error)

	// Histogram 创建直方图实例
	Histogram(name string, desc string, opts ...MetricOption) (Histogram, error)

	// Shutdown 关闭 Meter，刷新所有未导出的指标
	Shutdown(ctx context.Context) error
}

// Label 指标标签（键值对）
type Label struct {
	Key   string
	Value string
}

// L 创建标签的简写形式
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}

// MetricOptions 指标选项配置
type MetricOptions struct {
	Unit string
}

// MetricOption 指标选项函数
type MetricOption func(*MetricOptions)

// WithUnit 设置指标单位（如 "s"、"bytes"）
func WithUnit(unit string) MetricOption {
	return func(o *MetricOptions) {
		o.Unit = unit
	}
}

// toAttributes 将标签转换为 OTel 属性集
func toAttributes(labels []Label) []attribute.KeyValue {
	if len(labels) == 0 {
		return nil
	}
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for _, l := range labels {
		attrs = append(attrs, attribute.String(l.Key, l.Value))
	}
	return attrs
}
