// Package breaker 提供了分布式熔断器组件，用于隔离不可靠依赖并自动探测恢复。
//
// 与单进程熔断器不同，breaker 的核心能力是把熔断状态（状态机、计数器、
// 下次探测时间）放到共享存储中，让多个进程/实例对同一依赖的故障进行
// 合并记账：任何一个实例触发熔断，整个集群立即停止向故障依赖发送流量。
//
// breaker 提供了：
// - 共享状态：Redis / Etcd / GORM（MySQL、SQLite）多种后端，乐观版本并发控制
// - 无锁协同：所有状态更新通过版本化 CAS 完成，不依赖分布式锁
// - 惰性探测：OPEN 超时后的第一次调用触发探测，无后台定时器
// - 探测竞争收敛：OPEN→HALF_OPEN 转换与探测权通过 CAS 抢占，落败方直接降级
// - 降级策略：快速失败或自定义 Fallback
// - 本地模式：基于 gobreaker 的进程内驱动，用于单机场景
// - gRPC 拦截器与 Gin 中间件无侵入集成
//
// ## 基本使用
//
//	brk, _ := breaker.New(&breaker.Config{
//	    ID:               "payment-api",
//	    Driver:           breaker.DriverRedis,
//	    FailureThreshold: 5,
//	    SuccessThreshold: 2,
//	    Timeout:          30 * time.Second,
//	}, breaker.WithRedisConnector(redisConn), breaker.WithLogger(logger))
//
//	result, err := brk.Fire(ctx, func(ctx context.Context) (any, error) {
//	    return client.Call(ctx, req)
//	})
//
// ## 降级策略
//
//	brk, _ := breaker.New(cfg,
//	    breaker.WithRedisConnector(redisConn),
//	    breaker.WithFallback(func(ctx context.Context, err error) (any, error) {
//	        return cachedValue, nil
//	    }),
//	)
package breaker

import (
	"context"

	"github.com/ceyewan/fuse/clog"
)

// ========================================
// 接口定义 (Interface Definitions)
// ========================================

// Operation 受熔断保护的业务函数类型
type Operation func(ctx context.Context) (any, error)

// Fallback 降级函数类型
// 当熔断器打开（err 为 ErrOpenState）或业务调用失败（err 为原始错误）时调用。
// 降级函数自身的错误会直接透传给调用方，不做任何熔断记账。
type Fallback func(ctx context.Context, err error) (any, error)

// Breaker 熔断器核心接口，绑定单个熔断器标识
type Breaker interface {
	// Fire 执行受熔断保护的调用
	//
	// 工作流程：
	//   1. 读取（必要时惰性创建）共享状态记录
	//   2. CLOSED → 直接调用；OPEN 且未到探测时间 → 短路降级；
	//      OPEN 且到达探测时间 → CAS 抢占探测权，胜者探测、败者降级
	//   3. 调用结束后通过版本化 CAS 回写状态，冲突时有界重试
	//
	// 返回：
	//   - 业务函数或降级函数的执行结果
	//   - 错误：ErrOpenState（短路且未配置降级）、业务错误或降级错误
	Fire(ctx context.Context, fn Operation) (any, error)

	// State 读取当前熔断器状态
	State(ctx context.Context) (Status, error)
}

// ========================================
// 状态定义 (Status)
// ========================================

// Status 熔断器状态
type Status int

const (
	// StatusClosed 闭合状态（正常放行）
	StatusClosed Status = iota
	// StatusOpen 打开状态（熔断中，短路降级）
	StatusOpen
	// StatusHalfOpen 半开状态（探测恢复中）
	StatusHalfOpen
)

// String 返回状态的字符串表示
func (s Status) String() string {
	switch s {
	case StatusClosed:
		return "closed"
	case StatusOpen:
		return "open"
	case StatusHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// parseStatus 从字符串解析状态，未知值按 closed 处理
func parseStatus(s string) Status {
	switch s {
	case "open":
		return StatusOpen
	case "half_open":
		return StatusHalfOpen
	default:
		return StatusClosed
	}
}

// ========================================
// 工厂函数 (Factory Functions)
// ========================================

// New 创建熔断器实例
// 这是标准的工厂函数，支持配置驱动和显式依赖注入。
//
// 参数：
//   - cfg: 熔断器配置，不可为 nil；非法阈值在此处快速失败，而非 Fire 时
//   - opts: 可选配置，如 WithLogger()、WithRedisConnector()、WithFallback()
//
// 使用示例：
//
//	brk, err := breaker.New(&breaker.Config{
//	    ID:               "payment-api",
//	    Driver:           breaker.DriverRedis,
//	    FailureThreshold: 5,
//	    SuccessThreshold: 2,
//	    Timeout:          30 * time.Second,
//	}, breaker.WithRedisConnector(redisConn))
func New(cfg *Config, opts ...Option) (Breaker, error) {
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

	// 派生 Logger（添加 component 与 id 字段）
	logger := opt.logger
	if logger != nil {
		logger = logger.With(
			clog.String("component", "breaker"),
			clog.String("id", cfg.ID))
	} else {
		logger = clog.Discard()
	}

	if cfg.Driver == DriverLocal {
		return newLocalBreaker(cfg, logger, &opt)
	}

	store, err := resolveStore(cfg, &opt)
	if err != nil {
		return nil, err
	}
	return newDistBreaker(cfg, store, logger, &opt)
}

// resolveStore 根据驱动类型选择共享存储实现
func resolveStore(cfg *Config, opt *options) (Store, error) {
	if opt.store != nil {
		return opt.store, nil
	}

	switch cfg.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverRedis:
		if opt.redisConn == nil {
			return nil, ErrConnectorNil
		}
		return NewRedisStore(opt.redisConn, cfg.Prefix), nil
	case DriverEtcd:
		if opt.etcdConn == nil {
			return nil, ErrConnectorNil
		}
		return NewEtcdStore(opt.etcdConn, cfg.Prefix), nil
	case DriverGorm:
		if opt.db == nil {
			return nil, ErrConnectorNil
		}
		return NewGormStore(opt.db), nil
	default:
		return nil, ErrUnsupportedDriver
	}
}
