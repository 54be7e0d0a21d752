package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/aula/internal/core/notify"
	"github.com/colonyops/aula/internal/data/db"
)

func openStore(t *testing.T) *NotifyStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewNotifyStore(database)
}

func TestNotifyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and list", func(t *testing.T) {
		store := openStore(t)

		now := time.Now()
		id, err := store.Save(ctx, notify.Notification{
			Level:     notify.LevelError,
			Message:   "Ocurrió un error. Por favor intenta nuevamente.",
			Source:    "lead",
			CreatedAt: now,
		})
		require.NoError(t, err)
		assert.Positive(t, id)

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, notify.LevelError, items[0].Level)
		assert.Equal(t, "Ocurrió un error. Por favor intenta nuevamente.", items[0].Message)
		assert.Equal(t, "lead", items[0].Source)
		assert.Equal(t, id, items[0].ID)
		assert.Equal(t, now.UnixNano(), items[0].CreatedAt.UnixNano())
	})

	t.Run("list returns newest first", func(t *testing.T) {
		store := openStore(t)

		base := time.Now()
		for i, msg := range []string{"first", "second", "third"} {
			_, err := store.Save(ctx, notify.Notification{
				Level:     notify.LevelInfo,
				Message:   msg,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			})
			require.NoError(t, err)
		}

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "third", items[0].Message)
		assert.Equal(t, "second", items[1].Message)
		assert.Equal(t, "first", items[2].Message)
	})

	t.Run("clear deletes all", func(t *testing.T) {
		store := openStore(t)

		_, err := store.Save(ctx, notify.Notification{
			Level:     notify.LevelWarning,
			Message:   "warn",
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)

		require.NoError(t, store.Clear(ctx))

		items, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("count", func(t *testing.T) {
		store := openStore(t)

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		for i := range 3 {
			_, err := store.Save(ctx, notify.Notification{
				Level:     notify.LevelInfo,
				Message:   "msg",
				CreatedAt: time.Now().Add(time.Duration(i) * time.Millisecond),
			})
			require.NoError(t, err)
		}

		count, err = store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("empty list returns empty slice", func(t *testing.T) {
		store := openStore(t)

		items, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})

	t.Run("zero created at defaults to now", func(t *testing.T) {
		store := openStore(t)

		before := time.Now()
		_, err := store.Save(ctx, notify.Notification{Level: notify.LevelSuccess, Message: "ok"})
		require.NoError(t, err)

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.False(t, items[0].CreatedAt.Before(before.Truncate(time.Nanosecond)))
	})

	t.Run("prune keeps newest", func(t *testing.T) {
		store := openStore(t)

		base := time.Now()
		for i, msg := range []string{"a", "b", "c", "d"} {
			_, err := store.Save(ctx, notify.Notification{
				Level:     notify.LevelInfo,
				Message:   msg,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			})
			require.NoError(t, err)
		}

		deleted, err := store.Prune(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "d", items[0].Message)
		assert.Equal(t, "c", items[1].Message)

		deleted, err = store.Prune(ctx, 0)
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})
}
