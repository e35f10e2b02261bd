package breaker

import (
	"gorm.io/gorm"

	"github.com/ceyewan/fuse/clog"
	"github.com/ceyewan/fuse/connector"
	"github.com/ceyewan/fuse/events"
	"github.com/ceyewan/fuse/metrics"
)

// ========================================
// 可选配置 (Options)
// ========================================

// Option 定义用于定制熔断器的函数
type Option func(*options)

// options 收集所有可选依赖（非导出）
type options struct {
	logger    clog.Logger
	meter     metrics.Meter
	fallback  Fallback
	bus       events.Bus
	store     Store
	redisConn connector.RedisConnector
	etcdConn  connector.EtcdConnector
	db        *gorm.DB
}

// WithLogger 注入日志记录器
// breaker 会在此基础上派生带 component 和 id 字段的子 Logger。
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMeter 注入指标记录器，启用请求量、短路量、状态转换等指标
func WithMeter(meter metrics.Meter) Option {
	return func(o *options) {
		o.meter = meter
	}
}

// WithFallback 注入降级函数
// 熔断器打开或业务调用失败时走降级逻辑，而不是直接返回错误。
func WithFallback(fn Fallback) Option {
	return func(o *options) {
		o.fallback = fn
	}
}

// WithEventBus 注入事件总线，状态转换时发布事件（尽力而为，不阻塞调用）
func WithEventBus(bus events.Bus) Option {
	return func(o *options) {
		o.bus = bus
	}
}

// WithStore 注入自定义共享存储实现，优先级高于 Driver 推导
func WithStore(store Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithRedisConnector 注入 Redis 连接器（Driver 为 redis 时必需）
func WithRedisConnector(conn connector.RedisConnector) Option {
	return func(o *options) {
		o.redisConn = conn
	}
}

// WithEtcdConnector 注入 Etcd 连接器（Driver 为 etcd 时必需）
func WithEtcdConnector(conn connector.EtcdConnector) Option {
	return func(o *options) {
		o.etcdConn = conn
	}
}

// WithDB 注入 GORM 数据库句柄（Driver 为 gorm 时必需）
// 可来自 connector.NewMySQL 或 connector.NewSQLite 的 GetClient()。
func WithDB(db *gorm.DB) Option {
	return func(o *options) {
		o.db = db
	}
}
