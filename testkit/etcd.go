package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/ceyewan/fuse/connector"
)

// GetEtcdConfig 返回 Etcd 测试配置，默认连接 localhost:2379
func GetEtcdConfig() *connector.EtcdConfig {
	return &connector.EtcdConfig{
		Name:        "test-etcd",
		Endpoints:   []string{"localhost:2379"},
		DialTimeout: 5 * time.Second,
	}
}

// GetEtcdConnector 获取已连接的 Etcd 连接器，生命周期由 t.Cleanup 管理
func GetEtcdConnector(t *testing.T) connector.EtcdConnector {
	conn, err := connector.NewEtcd(GetEtcdConfig(), connector.WithLogger(NewLogger()))
	if err != nil {
		t.Fatalf("failed to create etcd connector: %v", err)
	}
	if err := conn.Connect(context.Background()); err != nil {
		t.Fatalf("failed to connect to etcd: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}
