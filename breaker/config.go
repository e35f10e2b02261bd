package breaker

import "time"

// ========================================
// 配置定义 (Configuration)
// ========================================

// DriverType 熔断器驱动类型
type DriverType string

const (
	// DriverRedis Redis 共享状态驱动（推荐的生产配置）
	DriverRedis DriverType = "redis"
	// DriverEtcd Etcd 共享状态驱动
	DriverEtcd DriverType = "etcd"
	// DriverGorm 关系型数据库共享状态驱动（MySQL、SQLite）
	DriverGorm DriverType = "gorm"
	// DriverMemory 进程内存储驱动，走完整 CAS 协议，用于测试和单机部署
	DriverMemory DriverType = "memory"
	// DriverLocal 基于 gobreaker 的进程内驱动，不经过共享存储
	DriverLocal DriverType = "local"
)

// StorePolicy 共享存储不可用时的放行策略
type StorePolicy string

const (
	// PolicyFailOpen 存储故障时放行请求（默认）
	// 熔断器是保护机制而非准入控制，存储故障不应该放大为全量拒绝。
	PolicyFailOpen StorePolicy = "fail_open"
	// PolicyFailClosed 存储故障时拒绝请求
	PolicyFailClosed StorePolicy = "fail_closed"
)

// Config 熔断器配置
type Config struct {
	// ID 熔断器标识，同一 ID 的所有实例共享状态，必填
	ID string `mapstructure:"id" json:"id"`

	// Driver 驱动类型：redis、etcd、gorm、memory、local，默认 memory
	Driver DriverType `mapstructure:"driver" json:"driver"`

	// FailureThreshold 连续失败多少次后打开熔断器，默认 5
	FailureThreshold int `mapstructure:"failure_threshold" json:"failure_threshold"`

	// SuccessThreshold 半开状态下连续成功多少次后闭合，默认 2
	SuccessThreshold int `mapstructure:"success_threshold" json:"success_threshold"`

	// Timeout 熔断器打开后多久允许下一次探测，默认 30s
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`

	// Prefix 共享存储键前缀，用于多应用共用一个存储实例时隔离，默认 "fuse:brk:"
	Prefix string `mapstructure:"prefix" json:"prefix"`

	// MaxUpdateRetries 状态回写 CAS 冲突时的最大重试次数，默认 3
	// 重试耗尽后放弃本次记账（其他实例已经推进了状态）。
	MaxUpdateRetries int `mapstructure:"max_update_retries" json:"max_update_retries"`

	// StorePolicy 存储不可用时的放行策略，默认 fail_open
	StorePolicy StorePolicy `mapstructure:"store_policy" json:"store_policy"`
}

// setDefaults 为配置填充默认值
func (c *Config) setDefaults() {
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = 5
	}
	if c.SuccessThreshold == 0 {
		c.SuccessThreshold = 2
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Prefix == "" {
		c.Prefix = "fuse:brk:"
	}
	if c.MaxUpdateRetries == 0 {
		c.MaxUpdateRetries = 3
	}
	if c.StorePolicy == "" {
		c.StorePolicy = PolicyFailOpen
	}
}

// validate 验证配置合法性
func (c *Config) validate() error {
	if c.ID == "" {
		return ErrIDEmpty
	}
	switch c.Driver {
	case DriverRedis, DriverEtcd, DriverGorm, DriverMemory, DriverLocal:
	default:
		return ErrUnsupportedDriver
	}
	if c.FailureThreshold < 1 {
		return ErrInvalidConfig
	}
	if c.SuccessThreshold < 1 {
		return ErrInvalidConfig
	}
	if c.Timeout < 0 {
		return ErrInvalidConfig
	}
	if c.MaxUpdateRetries < 0 {
		return ErrInvalidConfig
	}
	switch c.StorePolicy {
	case PolicyFailOpen, PolicyFailClosed:
	default:
		return ErrInvalidConfig
	}
	return nil
}
