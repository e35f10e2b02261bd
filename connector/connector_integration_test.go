//go:build integration

package connector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 需要本地运行的 Redis（localhost:6379）与 Etcd（localhost:2379）
func TestRedisIntegration(t *testing.T) {
	conn, err := NewRedis(&RedisConfig{
		Name: "it-redis",
		Addr: "localhost:6379",
		DB:   1,
	})
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, conn.Connect(ctx))
	assert.NoError(t, conn.HealthCheck(ctx))
	assert.True(t, conn.IsHealthy())

	require.NoError(t, conn.GetClient().Set(ctx, "connector:it", "ok", time.Minute).Err())
	val, err := conn.GetClient().Get(ctx, "connector:it").Result()
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
}

func TestEtcdIntegration(t *testing.T) {
	conn, err := NewEtcd(&EtcdConfig{
		Name:      "it-etcd",
		Endpoints: []string{"localhost:2379"},
	})
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, conn.Connect(ctx))
	assert.NoError(t, conn.HealthCheck(ctx))

	_, err = conn.GetClient().Put(ctx, "connector/it", "ok")
	require.NoError(t, err)
}
