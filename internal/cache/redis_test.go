package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/HaroldK3/Student-Tracker/internal/cache"
	"github.com/HaroldK3/Student-Tracker/testing/testredis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Users int `json:"users"`
}

func TestRedisCache(t *testing.T) {
	redisContainer := testredis.SetupSharedRedis(t)
	defer redisContainer.Cleanup(t)

	ctx := context.Background()
	c, err := cache.NewRedisCache(ctx, redisContainer.URL)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Ping(ctx))

	t.Run("Miss", func(t *testing.T) {
		var got snapshot
		assert.ErrorIs(t, c.GetJSON(ctx, "missing", &got), cache.ErrNotFound)
	})

	t.Run("RoundTripAndDelete", func(t *testing.T) {
		require.NoError(t, c.SetJSON(ctx, "dash", snapshot{Users: 3}, time.Minute))

		var got snapshot
		require.NoError(t, c.GetJSON(ctx, "dash", &got))
		assert.Equal(t, 3, got.Users)

		require.NoError(t, c.Delete(ctx, "dash"))
		assert.ErrorIs(t, c.GetJSON(ctx, "dash", &got), cache.ErrNotFound)
	})

	t.Run("Expires", func(t *testing.T) {
		require.NoError(t, c.SetJSON(ctx, "short", snapshot{Users: 1}, 50*time.Millisecond))
		time.Sleep(200 * time.Millisecond)

		var got snapshot
		assert.ErrorIs(t, c.GetJSON(ctx, "short", &got), cache.ErrNotFound)
	})
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := cache.NewRedisCache(context.Background(), "not-a-url")
	assert.Error(t, err)
}
