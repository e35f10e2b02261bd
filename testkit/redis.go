package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ceyewan/fuse/connector"
)

// GetRedisConfig 返回 Redis 测试配置，默认连接 localhost:6379
func GetRedisConfig() *connector.RedisConfig {
	return &connector.RedisConfig{
		Name:         "test-redis",
		Addr:         "localhost:6379",
		DB:           1, // 使用 DB 1 避免与默认的 DB 0 冲突
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// GetRedisConnector 获取已连接的 Redis 连接器，生命周期由 t.Cleanup 管理
func GetRedisConnector(t *testing.T) connector.RedisConnector {
	conn, err := connector.NewRedis(GetRedisConfig(), connector.WithLogger(NewLogger()))
	if err != nil {
		t.Fatalf("failed to create redis connector: %v", err)
	}
	if err := conn.Connect(context.Background()); err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

// FlushRedis 清空 Redis 测试数据库（慎用！）
func FlushRedis(t *testing.T, client *redis.Client) {
	if err := client.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}
}
