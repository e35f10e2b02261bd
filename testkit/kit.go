// Package testkit 提供测试公共依赖和外部基础设施的连接辅助。
// 集成测试默认连接本地的 Redis / Etcd 实例，MySQL 通过 testcontainers 启动。
package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ceyewan/fuse/clog"
	"github.com/ceyewan/fuse/metrics"
)

// NewLogger 返回一个用于测试的 logger，开发格式输出，便于本地调试
func NewLogger() clog.Logger {
	logger, err := clog.New(clog.NewDevDefaultConfig("fuse-test"))
	if err != nil {
		return clog.Discard()
	}
	return logger
}

// NewMeter 返回一个用于测试的 meter（不启动 HTTP 服务器）
func NewMeter() metrics.Meter {
	meter, err := metrics.New(metrics.NewDevDefaultConfig("fuse-test"))
	if err != nil {
		return metrics.Discard()
	}
	return meter
}

// NewContext 返回一个带超时的测试上下文
func NewContext(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// NewID 返回一个唯一的测试 ID (UUID v4 前 8 位)
// 用于生成唯一的熔断器标识或键前缀，避免测试间数据冲突
func NewID() string {
	return uuid.New().String()[0:8]
}
