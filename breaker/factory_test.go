package breaker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFactory(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewFactory(nil)
		assert.ErrorIs(t, err, ErrConfigNil)
	})

	t.Run("invalid template fails fast", func(t *testing.T) {
		_, err := NewFactory(&Config{Driver: "zookeeper"})
		assert.ErrorIs(t, err, ErrUnsupportedDriver)
	})
}

func TestFactoryGet(t *testing.T) {
	factory, err := NewFactory(&Config{
		Driver:           DriverMemory,
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Timeout:          time.Second,
	})
	require.NoError(t, err)

	t.Run("same id returns cached instance", func(t *testing.T) {
		a, err := factory.Get("payment-api")
		require.NoError(t, err)
		b, err := factory.Get("payment-api")
		require.NoError(t, err)
		assert.Same(t, a, b)
	})

	t.Run("different ids are isolated", func(t *testing.T) {
		a, err := factory.Get("svc-a")
		require.NoError(t, err)
		b, err := factory.Get("svc-b")
		require.NoError(t, err)
		assert.NotSame(t, a, b)
	})

	t.Run("changed thresholds create new instance", func(t *testing.T) {
		a, err := factory.Get("svc-c")
		require.NoError(t, err)

		cfg := factory.template
		cfg.ID = "svc-c"
		cfg.FailureThreshold = 10
		b, err := factory.Create(&cfg)
		require.NoError(t, err)
		assert.NotSame(t, a, b)
	})

	t.Run("changed store policy creates new instance", func(t *testing.T) {
		a, err := factory.Get("svc-d")
		require.NoError(t, err)

		cfg := factory.template
		cfg.ID = "svc-d"
		cfg.StorePolicy = PolicyFailClosed
		b, err := factory.Create(&cfg)
		require.NoError(t, err)
		assert.NotSame(t, a, b)
	})

	t.Run("changed prefix creates new instance", func(t *testing.T) {
		a, err := factory.Get("svc-e")
		require.NoError(t, err)

		cfg := factory.template
		cfg.ID = "svc-e"
		cfg.Prefix = "other:brk:"
		b, err := factory.Create(&cfg)
		require.NoError(t, err)
		assert.NotSame(t, a, b)
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		_, err := factory.Create(&Config{})
		assert.ErrorIs(t, err, ErrIDEmpty)
	})
}

// 同一工厂的内存驱动实例共享存储：即使配置变化产生了新实例，
// 同一标识看到的仍是同一份状态。
func TestFactoryMemoryStateShared(t *testing.T) {
	ctx := context.Background()
	factory, err := NewFactory(&Config{
		Driver:           DriverMemory,
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Timeout:          time.Minute,
	})
	require.NoError(t, err)

	a, err := factory.Get("shared")
	require.NoError(t, err)
	_, _ = a.Fire(ctx, func(ctx context.Context) (any, error) { return nil, errBoom })

	cfg := factory.template
	cfg.ID = "shared"
	cfg.SuccessThreshold = 3
	b, err := factory.Create(&cfg)
	require.NoError(t, err)
	require.NotSame(t, a, b)

	status, err := b.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, status)
}
