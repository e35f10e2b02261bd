package events

import "github.com/ceyewan/fuse/xerrors"

// DriverType 事件总线驱动类型
type DriverType string

const (
	// DriverNATS 使用 NATS Core 发布事件
	DriverNATS DriverType = "nats"
	// DriverKafka 使用 Kafka 发布事件
	DriverKafka DriverType = "kafka"
	// DriverNoop 丢弃所有事件（默认）
	DriverNoop DriverType = "noop"
)

// Config 事件总线配置
type Config struct {
	// Driver 驱动类型: "nats" | "kafka" | "noop"（默认 "noop"）
	Driver DriverType `json:"driver" yaml:"driver" mapstructure:"driver"`

	// Subject 事件主题（NATS subject / Kafka topic），默认 "fuse.breaker.transitions"
	Subject string `json:"subject" yaml:"subject" mapstructure:"subject"`
}

func (c *Config) setDefaults() {
	if c.Driver == "" {
		c.Driver = DriverNoop
	}
	if c.Subject == "" {
		c.Subject = "fuse.breaker.transitions"
	}
}

func (c *Config) validate() error {
	switch c.Driver {
	case DriverNATS, DriverKafka, DriverNoop:
		return nil
	default:
		return xerrors.New("events: unsupported driver: " + string(c.Driver))
	}
}
