package breaker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/fuse/testkit"
)

func newSQLiteStore(t *testing.T) Store {
	db := testkit.NewSQLiteDB(t)
	require.NoError(t, AutoMigrate(db))
	return NewGormStore(db)
}

func TestGormStore(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	t.Run("get missing record", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("create and read back", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, "a", newRecord()))

		record, err := store.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, StatusClosed, record.Status)
		assert.Equal(t, int64(1), record.Version)
	})

	t.Run("duplicate create", func(t *testing.T) {
		assert.ErrorIs(t, store.Create(ctx, "a", newRecord()), ErrRecordExists)
	})

	t.Run("cas round-trips open state", func(t *testing.T) {
		nextAttempt := time.Now().Add(30 * time.Second).Truncate(time.Millisecond).UTC()
		next := Record{Status: StatusOpen, NextAttemptAt: nextAttempt}

		version, err := store.CompareAndSwap(ctx, "a", 1, next)
		require.NoError(t, err)
		assert.Equal(t, int64(2), version)

		record, err := store.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, StatusOpen, record.Status)
		assert.True(t, record.NextAttemptAt.Equal(nextAttempt))
	})

	t.Run("cas with stale version", func(t *testing.T) {
		_, err := store.CompareAndSwap(ctx, "a", 1, newRecord())
		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("cas on missing record", func(t *testing.T) {
		_, err := store.CompareAndSwap(ctx, "missing", 1, newRecord())
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}
