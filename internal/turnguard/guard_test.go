package turnguard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-agent/internal/survey"
)

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, &Redis{client: client, ttl: time.Hour, logger: zerolog.Nop()}
}

func guards(t *testing.T) map[string]Guard {
	_, r := setupMiniRedis(t)
	return map[string]Guard{
		"memory": NewMemory(time.Hour),
		"redis":  r,
	}
}

func TestGuardRejectsReplay(t *testing.T) {
	ctx := context.Background()
	for name, g := range guards(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, g.Begin(ctx, "conv-1", 1))

			err := g.Begin(ctx, "conv-1", 1)
			require.ErrorIs(t, err, ErrStale)
			assert.Equal(t, survey.CodeStaleState, survey.CodeOf(err))

			assert.NoError(t, g.Begin(ctx, "conv-1", 2), "next turn is free")
			assert.NoError(t, g.Begin(ctx, "conv-2", 1), "other conversation is free")
		})
	}
}

func TestGuardAbortReleasesClaim(t *testing.T) {
	ctx := context.Background()
	for name, g := range guards(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, g.Begin(ctx, "conv-1", 3))
			g.Abort(ctx, "conv-1", 3)
			assert.NoError(t, g.Begin(ctx, "conv-1", 3))
		})
	}
}

func TestMemoryClaimsExpire(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, m.Begin(ctx, "conv", 1))
	assert.Equal(t, 1, m.Len())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 0, m.Len())
	assert.NoError(t, m.Begin(ctx, "conv", 1))
}

func TestRedisClaimsExpire(t *testing.T) {
	mr, g := setupMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, g.Begin(ctx, "conv", 1))
	assert.True(t, mr.Exists("survey:turn:conv:1"))

	mr.FastForward(2 * time.Hour)
	assert.NoError(t, g.Begin(ctx, "conv", 1))
}

func TestRedisUnavailableAllowsTurn(t *testing.T) {
	mr, g := setupMiniRedis(t)
	mr.Close()

	assert.NoError(t, g.Begin(context.Background(), "conv", 1))
}

func TestNop(t *testing.T) {
	var g Guard = Nop{}
	require.NoError(t, g.Begin(context.Background(), "conv", 1))
	require.NoError(t, g.Begin(context.Background(), "conv", 1))
}
