package breaker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("get missing record", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("create assigns initial version", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, "a", newRecord()))

		record, err := store.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, StatusClosed, record.Status)
		assert.Equal(t, int64(1), record.Version)
	})

	t.Run("duplicate create", func(t *testing.T) {
		assert.ErrorIs(t, store.Create(ctx, "a", newRecord()), ErrRecordExists)
	})

	t.Run("cas advances version", func(t *testing.T) {
		next := Record{Status: StatusOpen, NextAttemptAt: time.Now().Add(time.Second)}
		version, err := store.CompareAndSwap(ctx, "a", 1, next)
		require.NoError(t, err)
		assert.Equal(t, int64(2), version)

		record, err := store.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, StatusOpen, record.Status)
		assert.Equal(t, int64(2), record.Version)
	})

	t.Run("cas with stale version", func(t *testing.T) {
		_, err := store.CompareAndSwap(ctx, "a", 1, newRecord())
		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("cas on missing record", func(t *testing.T) {
		_, err := store.CompareAndSwap(ctx, "missing", 1, newRecord())
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := store.Get(cancelled, "a")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
