// Package connector 为 Fuse 提供统一的连接管理能力。
//
// 核心特性：
//   - 统一抽象：通过 Connector 接口提供一致的连接管理 API
//   - 类型安全：通过 TypedConnector[T] 泛型接口确保编译时类型检查
//   - 多数据源支持：Redis、Etcd、MySQL、SQLite、NATS、Kafka
//   - 并发安全：所有公开方法均为并发安全
//   - 资源管理：遵循"谁创建，谁负责释放"原则，Close() 应在应用层调用
//
// 设计理念：
//   - 显式依赖注入：组件（如 breaker、events）仅借用 Connector，不调用 Close()
//   - 幂等连接：Connect() 可安全重复调用
//   - 延迟连接：NewXXX() 创建连接器但不立即建立连接，Connect() 时才连接
//
// 基本使用：
//
//	conn, err := connector.NewRedis(&connector.RedisConfig{
//		Addr: "127.0.0.1:6379",
//	}, connector.WithLogger(logger))
//	if err != nil {
//		panic(err)
//	}
//	defer conn.Close()
//
//	if err := conn.Connect(ctx); err != nil {
//		panic(err)
//	}
//	client := conn.GetClient()
package connector

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"
	clientv3 "go.etcd.io/etcd/client/v3"
	"gorm.io/gorm"
)

// Connector 定义所有连接器的通用行为。
// 接口方法均为并发安全，可从多个协程同时调用。
type Connector interface {
	// Connect 建立连接。幂等，可安全多次调用。
	Connect(ctx context.Context) error

	// Close 关闭连接并释放资源。幂等。
	Close() error

	// HealthCheck 通过测试请求验证连接可用性，并更新内部健康状态缓存。
	HealthCheck(ctx context.Context) error

	// IsHealthy 无阻塞返回最近一次 HealthCheck 的缓存结果。
	IsHealthy() bool

	// Name 返回连接实例名称，用于日志和指标标识。
	Name() string
}

// TypedConnector 提供类型安全的客户端访问。
// 类型参数 T 是客户端类型，如 *redis.Client、*gorm.DB 等。
type TypedConnector[T any] interface {
	Connector

	// GetClient 返回底层客户端实例。未连接或已关闭时返回零值。
	GetClient() T
}

// RedisConnector Redis 连接器接口
type RedisConnector interface {
	TypedConnector[*redis.Client]
}

// EtcdConnector Etcd 连接器接口
type EtcdConnector interface {
	TypedConnector[*clientv3.Client]
}

// MySQLConnector MySQL 连接器接口（GORM）
type MySQLConnector interface {
	TypedConnector[*gorm.DB]
}

// SQLiteConnector SQLite 连接器接口（GORM）
type SQLiteConnector interface {
	TypedConnector[*gorm.DB]
}

// NATSConnector NATS 连接器接口
type NATSConnector interface {
	TypedConnector[*nats.Conn]
}

// KafkaConnector Kafka 连接器接口（franz-go）
type KafkaConnector interface {
	TypedConnector[*kgo.Client]
}
