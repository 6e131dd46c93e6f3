package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBlacklistRepository()
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	ok, err := repo.Contains(ctx, "tok-a")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Insert(ctx, "tok-a", now, now.Add(time.Hour)))
	require.NoError(t, repo.Insert(ctx, "tok-a", now.Add(time.Minute), now.Add(2*time.Hour)))
	require.NoError(t, repo.Insert(ctx, "tok-b", now, now.Add(-time.Hour)))

	// --- entries stay revoked whatever their expiry ---
	for _, tok := range []string{"tok-a", "tok-b"} {
		ok, err = repo.Contains(ctx, tok)
		require.NoError(t, err)
		require.True(t, ok, tok)
	}

	// --- pruning removes only entries whose token already expired ---
	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	ok, _ = repo.Contains(ctx, "tok-b")
	require.False(t, ok)
	ok, _ = repo.Contains(ctx, "tok-a")
	require.True(t, ok)

	// first insert wins; the second revoke did not extend retention
	n, err = repo.DeleteExpired(ctx, now.Add(90*time.Minute))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestRedisBlacklist(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := NewRedisBlacklistRepository(rdb)
	now := time.Now().UTC()

	ok, err := repo.Contains(ctx, "tok-a")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Insert(ctx, "tok-a", now, now.Add(5*time.Hour)))
	require.NoError(t, repo.Insert(ctx, "tok-a", now, now.Add(5*time.Hour)))

	ok, err = repo.Contains(ctx, "tok-a")
	require.NoError(t, err)
	require.True(t, ok)

	// raw tokens never become keys
	key := redisBlacklistPrefix + utils.HashToken("tok-a")
	require.True(t, mr.Exists(key))
	require.False(t, mr.Exists(redisBlacklistPrefix+"tok-a"))

	ttl := mr.TTL(key)
	require.Greater(t, ttl, 5*time.Hour)
	require.LessOrEqual(t, ttl, 5*time.Hour+redisBlacklistGrace)

	// --- the key disappears once the token itself would have expired ---
	mr.FastForward(5*time.Hour + 2*time.Minute)
	ok, err = repo.Contains(ctx, "tok-a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisBlacklistExpiredTokenGetsGraceTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := NewRedisBlacklistRepository(rdb)
	now := time.Now().UTC()

	require.NoError(t, repo.Insert(ctx, "old", now, now.Add(-time.Hour)))
	require.Equal(t, redisBlacklistGrace, mr.TTL(redisBlacklistPrefix+utils.HashToken("old")))
}

func TestRedisBlacklistUnavailable(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	repo := NewRedisBlacklistRepository(rdb)

	mr.Close()
	_, err := repo.Contains(ctx, "tok")
	require.Error(t, err)
}
