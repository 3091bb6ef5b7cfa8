package stores

import (
	"context"
	"testing"
	"time"

	"github.com/steadyhq/stride/internal/core/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and list", func(t *testing.T) {
		store := NewNotifyStore(newTestDB(t))

		id, err := store.Save(ctx, notify.Notification{
			Level:     notify.LevelInfo,
			Message:   "scheduled 4 steps",
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
		assert.Positive(t, id)

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, notify.LevelInfo, list[0].Level)
		assert.Equal(t, "scheduled 4 steps", list[0].Message)
	})

	t.Run("list newest first", func(t *testing.T) {
		store := NewNotifyStore(newTestDB(t))

		now := time.Now()
		_, err := store.Save(ctx, notify.Notification{Level: notify.LevelInfo, Message: "older", CreatedAt: now.Add(-time.Hour)})
		require.NoError(t, err)
		_, err = store.Save(ctx, notify.Notification{Level: notify.LevelWarning, Message: "newer", CreatedAt: now})
		require.NoError(t, err)

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "newer", list[0].Message)
	})

	t.Run("count and clear", func(t *testing.T) {
		store := NewNotifyStore(newTestDB(t))

		for i := 0; i < 3; i++ {
			_, err := store.Save(ctx, notify.Notification{Level: notify.LevelInfo, Message: "m", CreatedAt: time.Now()})
			require.NoError(t, err)
		}

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)

		require.NoError(t, store.Clear(ctx))

		count, err = store.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
