package events

import (
	"github.com/ceyewan/fuse/clog"
	"github.com/ceyewan/fuse/connector"
)

// Option 组件初始化选项函数
type Option func(*options)

// options 组件初始化选项配置（内部使用，小写）
type options struct {
	logger    clog.Logger
	natsConn  connector.NATSConnector
	kafkaConn connector.KafkaConnector
}

// WithLogger 设置 Logger
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithNATSConnector 注入 NATS 连接器
func WithNATSConnector(conn connector.NATSConnector) Option {
	return func(o *options) {
		if conn != nil {
			o.natsConn = conn
		}
	}
}

// WithKafkaConnector 注入 Kafka 连接器
func WithKafkaConnector(conn connector.KafkaConnector) Option {
	return func(o *options) {
		if conn != nil {
			o.kafkaConn = conn
		}
	}
}
