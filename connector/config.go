package connector

import (
	"time"

	"github.com/ceyewan/fuse/xerrors"
)

// RedisConfig Redis 连接配置
type RedisConfig struct {
	// Name 连接实例名称，用于日志和指标标识（默认 "default"）
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Addr 服务地址，形如 "host:port"
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// Password 认证密码，可为空
	Password string `json:"password" yaml:"password" mapstructure:"password"`

	// DB 数据库编号（默认 0）
	DB int `json:"db" yaml:"db" mapstructure:"db"`

	// PoolSize 连接池大小（默认 10）
	PoolSize int `json:"pool_size" yaml:"pool_size" mapstructure:"pool_size"`

	// MinIdleConns 最小空闲连接数（默认 2）
	MinIdleConns int `json:"min_idle_conns" yaml:"min_idle_conns" mapstructure:"min_idle_conns"`

	// DialTimeout 建连超时（默认 5s）
	DialTimeout time.Duration `json:"dial_timeout" yaml:"dial_timeout" mapstructure:"dial_timeout"`

	// ReadTimeout 读超时（默认 3s）
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`

	// WriteTimeout 写超时（默认 3s）
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`

	// EnableTracing 是否启用 OpenTelemetry 链路追踪（redisotel）
	EnableTracing bool `json:"enable_tracing" yaml:"enable_tracing" mapstructure:"enable_tracing"`
}

func (c *RedisConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 2
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

func (c *RedisConfig) validate() error {
	if c.Addr == "" {
		return xerrors.Wrap(ErrConfig, "redis addr is required")
	}
	return nil
}

// EtcdConfig Etcd 连接配置
type EtcdConfig struct {
	// Name 连接实例名称（默认 "default"）
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Endpoints 集群端点列表
	Endpoints []string `json:"endpoints" yaml:"endpoints" mapstructure:"endpoints"`

	// Username 认证用户名，可为空
	Username string `json:"username" yaml:"username" mapstructure:"username"`

	// Password 认证密码，可为空
	Password string `json:"password" yaml:"password" mapstructure:"password"`

	// DialTimeout 建连超时（默认 5s）
	DialTimeout time.Duration `json:"dial_timeout" yaml:"dial_timeout" mapstructure:"dial_timeout"`
}

func (c *EtcdConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
}

func (c *EtcdConfig) validate() error {
	if len(c.Endpoints) == 0 {
		return xerrors.Wrap(ErrConfig, "etcd endpoints are required")
	}
	return nil
}

// MySQLConfig MySQL 连接配置
type MySQLConfig struct {
	// Name 连接实例名称（默认 "default"）
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// DSN 完整连接串，非空时优先于下面的字段
	DSN string `json:"dsn" yaml:"dsn" mapstructure:"dsn"`

	Host     string `json:"host" yaml:"host" mapstructure:"host"`
	Port     int    `json:"port" yaml:"port" mapstructure:"port"`
	Username string `json:"username" yaml:"username" mapstructure:"username"`
	Password string `json:"password" yaml:"password" mapstructure:"password"`
	Database string `json:"database" yaml:"database" mapstructure:"database"`
	Charset  string `json:"charset" yaml:"charset" mapstructure:"charset"`

	// MaxIdleConns 最大空闲连接数（默认 2）
	MaxIdleConns int `json:"max_idle_conns" yaml:"max_idle_conns" mapstructure:"max_idle_conns"`

	// MaxOpenConns 最大打开连接数（默认 10）
	MaxOpenConns int `json:"max_open_conns" yaml:"max_open_conns" mapstructure:"max_open_conns"`

	// ConnMaxLifetime 连接最大生命周期（默认 1h）
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`

	// EnableTracing 是否启用 OpenTelemetry 链路追踪（otelgorm）
	EnableTracing bool `json:"enable_tracing" yaml:"enable_tracing" mapstructure:"enable_tracing"`
}

func (c *MySQLConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.Port == 0 {
		c.Port = 3306
	}
	if c.Charset == "" {
		c.Charset = "utf8mb4"
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 2
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 10
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = time.Hour
	}
}

func (c *MySQLConfig) validate() error {
	if c.DSN == "" && (c.Host == "" || c.Database == "") {
		return xerrors.Wrap(ErrConfig, "mysql dsn or host/database is required")
	}
	return nil
}

// SQLiteConfig SQLite 连接配置
type SQLiteConfig struct {
	// Name 连接实例名称（默认 "default"）
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Path 数据库文件路径，内存库用 "file::memory:?cache=shared"
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

func (c *SQLiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
}

func (c *SQLiteConfig) validate() error {
	if c.Path == "" {
		return xerrors.Wrap(ErrConfig, "sqlite path is required")
	}
	return nil
}

// NATSConfig NATS 连接配置
type NATSConfig struct {
	// Name 连接实例名称（默认 "default"）
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// URL 服务地址，形如 "nats://host:4222"
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// Timeout 建连超时（默认 5s）
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

func (c *NATSConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
}

func (c *NATSConfig) validate() error {
	if c.URL == "" {
		return xerrors.Wrap(ErrConfig, "nats url is required")
	}
	return nil
}

// KafkaConfig Kafka 连接配置
type KafkaConfig struct {
	// Name 连接实例名称（默认 "default"）
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Seed 种子 broker 地址列表
	Seed []string `json:"seed" yaml:"seed" mapstructure:"seed"`

	// ClientID 客户端标识（默认 "fuse"）
	ClientID string `json:"client_id" yaml:"client_id" mapstructure:"client_id"`
}

func (c *KafkaConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.ClientID == "" {
		c.ClientID = "fuse"
	}
}

func (c *KafkaConfig) validate() error {
	if len(c.Seed) == 0 {
		return xerrors.Wrap(ErrConfig, "kafka seed brokers are required")
	}
	return nil
}
