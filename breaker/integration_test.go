//go:build integration

package breaker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/fuse/testkit"
)

// 需要本地 Redis (localhost:6379) 与 Etcd (localhost:2379)：
//   go test -tags=integration ./breaker/...

func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	id := "contract-" + testkit.NewID()

	_, err := store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	require.NoError(t, store.Create(ctx, id, newRecord()))
	assert.ErrorIs(t, store.Create(ctx, id, newRecord()), ErrRecordExists)

	record, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, record.Status)

	nextAttempt := time.Now().Add(30 * time.Second).Truncate(time.Millisecond).UTC()
	next := Record{Status: StatusOpen, FailureCount: 0, NextAttemptAt: nextAttempt}
	version, err := store.CompareAndSwap(ctx, id, record.Version, next)
	require.NoError(t, err)
	assert.Greater(t, version, record.Version)

	// 旧版本的并发写必须失败
	_, err = store.CompareAndSwap(ctx, id, record.Version, newRecord())
	assert.ErrorIs(t, err, ErrVersionConflict)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, got.Status)
	assert.True(t, got.NextAttemptAt.Equal(nextAttempt))
	assert.Equal(t, version, got.Version)

	_, err = store.CompareAndSwap(ctx, "missing-"+testkit.NewID(), 1, newRecord())
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRedisStoreContract(t *testing.T) {
	conn := testkit.GetRedisConnector(t)
	runStoreContract(t, NewRedisStore(conn, "fuse:test:"))
}

func TestEtcdStoreContract(t *testing.T) {
	conn := testkit.GetEtcdConnector(t)
	runStoreContract(t, NewEtcdStore(conn, "fuse/test/"))
}

// 两个实例通过 Redis 共享熔断状态：实例 A 触发熔断，实例 B 立即短路
func TestRedisSharedTrip(t *testing.T) {
	ctx := context.Background()
	conn := testkit.GetRedisConnector(t)

	cfg := &Config{
		ID:               "shared-" + testkit.NewID(),
		Driver:           DriverRedis,
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Timeout:          time.Minute,
		Prefix:           "fuse:test:",
	}

	newInstance := func() Breaker {
		brk, err := New(cfg, WithRedisConnector(conn), WithLogger(testkit.NewLogger()))
		require.NoError(t, err)
		return brk
	}

	a, b := newInstance(), newInstance()
	for i := 0; i < 3; i++ {
		_, err := a.Fire(ctx, func(ctx context.Context) (any, error) { return nil, errBoom })
		assert.ErrorIs(t, err, errBoom)
	}

	invoked := false
	_, err := b.Fire(ctx, func(ctx context.Context) (any, error) {
		invoked = true
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, invoked)

	status, err := b.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, status)
}

// 超时后恢复：打开 → 探测 → 连续成功闭合
func TestRedisRecoveryCycle(t *testing.T) {
	ctx := context.Background()
	conn := testkit.GetRedisConnector(t)

	cfg := &Config{
		ID:               "recovery-" + testkit.NewID(),
		Driver:           DriverRedis,
		FailureThreshold: 2,
		SuccessThreshold: 2,
		Timeout:          500 * time.Millisecond,
		Prefix:           "fuse:test:",
	}
	brk, err := New(cfg, WithRedisConnector(conn))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _ = brk.Fire(ctx, func(ctx context.Context) (any, error) { return nil, errBoom })
	}
	status, err := brk.State(ctx)
	require.NoError(t, err)
	require.Equal(t, StatusOpen, status)

	time.Sleep(600 * time.Millisecond)

	for i := 0; i < 2; i++ {
		_, err := brk.Fire(ctx, func(ctx context.Context) (any, error) { return "ok", nil })
		require.NoError(t, err)
	}

	status, err = brk.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, status)
}
