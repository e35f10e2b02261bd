// Package events 提供熔断器状态变更事件的发布能力。
//
// 在分布式部署中，一个实例触发的熔断状态变更会影响整个集群的流量走向。
// events 将每次状态变更发布到消息总线（NATS / Kafka），供监控面板、
// 告警系统或其他实例订阅观测。
//
// 发布是尽力而为的：事件发布失败不影响熔断器本身的正确性，
// 调用方应记录日志后继续。
//
// ## 基本使用
//
//	bus, _ := events.New(&events.Config{
//	    Driver:  events.DriverNATS,
//	    Subject: "fuse.breaker.transitions",
//	}, events.WithNATSConnector(natsConn), events.WithLogger(logger))
//	defer bus.Close()
//
//	bus.Publish(ctx, &events.Event{
//	    BreakerID: "payment-api",
//	    From:      "closed",
//	    To:        "open",
//	})
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ceyewan/fuse/clog"
	"github.com/ceyewan/fuse/xerrors"
)

// ========================================
// 接口定义 (Interface Definitions)
// ========================================

// Event 熔断器状态变更事件
type Event struct {
	// BreakerID 熔断器标识
	BreakerID string `json:"breaker_id"`

	// From 变更前状态（"closed" | "open" | "half_open"）
	From string `json:"from"`

	// To 变更后状态
	To string `json:"to"`

	// Instance 发布事件的进程实例标识，由 Bus 在创建时生成
	Instance string `json:"instance"`

	// At 变更发生时间
	At time.Time `json:"at"`
}

// Bus 事件总线核心接口
type Bus interface {
	// Publish 发布一个状态变更事件
	// 事件的 Instance 与 At 字段为空时由 Bus 自动填充
	Publish(ctx context.Context, event *Event) error

	// Close 释放资源（底层连接由 Connector 管理，不会被关闭）
	Close() error
}

// ========================================
// 工厂函数 (Factory Functions)
// ========================================

// New 创建事件总线实例
//
// 参数：
//   - cfg: 事件总线配置，不可为 nil
//   - opts: 可选配置，如 WithLogger()、WithNATSConnector()
func New(cfg *Config, opts ...Option) (Bus, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opt := options{}
	for _, o := range opts {
		o(&opt)
	}

	logger := opt.logger
	if logger != nil {
		logger = logger.With(clog.String("component", "events"))
	} else {
		logger = clog.Discard()
	}

	instance := uuid.New().String()

	switch cfg.Driver {
	case DriverNATS:
		if opt.natsConn == nil {
			return nil, xerrors.New("events: nats connector is required, use WithNATSConnector")
		}
		logger.Info("creating event bus",
			clog.String("driver", string(cfg.Driver)),
			clog.String("subject", cfg.Subject),
			clog.String("instance", instance))
		return &natsBus{conn: opt.natsConn, subject: cfg.Subject, instance: instance, logger: logger}, nil
	case DriverKafka:
		if opt.kafkaConn == nil {
			return nil, xerrors.New("events: kafka connector is required, use WithKafkaConnector")
		}
		logger.Info("creating event bus",
			clog.String("driver", string(cfg.Driver)),
			clog.String("topic", cfg.Subject),
			clog.String("instance", instance))
		return &kafkaBus{conn: opt.kafkaConn, topic: cfg.Subject, instance: instance, logger: logger}, nil
	case DriverNoop:
		return &noopBus{instance: instance}, nil
	default:
		return nil, xerrors.New("events: unsupported driver: " + string(cfg.Driver))
	}
}

// Noop 返回丢弃所有事件的 Bus，用于测试或显式禁用事件发布
func Noop() Bus {
	return &noopBus{instance: uuid.New().String()}
}

// stamp 填充事件的 Instance 与 At 字段并序列化
func stamp(event *Event, instance string) ([]byte, error) {
	if event == nil {
		return nil, ErrEventNil
	}
	if event.Instance == "" {
		event.Instance = instance
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, xerrors.Wrap(err, "events: marshal event")
	}
	return data, nil
}
