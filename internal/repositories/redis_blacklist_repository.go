package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

const (
	redisBlacklistPrefix = "farmcare:blacklist:"

	// entries outlive the token by this margin to absorb clock skew
	redisBlacklistGrace = time.Minute
)

type redisBlacklistRepo struct {
	rdb redis.UniversalClient
}

// NewRedisBlacklistRepository keeps revoked token hashes as Redis keys that
// expire shortly after the token itself, so no pruning job is needed.
func NewRedisBlacklistRepository(rdb redis.UniversalClient) auth.TokenBlacklistStore {
	return &redisBlacklistRepo{rdb: rdb}
}

func (r *redisBlacklistRepo) key(token string) string {
	return redisBlacklistPrefix + utils.HashToken(token)
}

func (r *redisBlacklistRepo) Insert(ctx context.Context, token string, revokedAt, expiresAt time.Time) error {
	ttl := expiresAt.Sub(revokedAt) + redisBlacklistGrace
	if ttl < redisBlacklistGrace {
		ttl = redisBlacklistGrace
	}
	// SetNX keeps the first revocation instant on repeat revokes.
	return r.rdb.SetNX(ctx, r.key(token), revokedAt.UTC().Format(time.RFC3339), ttl).Err()
}

func (r *redisBlacklistRepo) Contains(ctx context.Context, token string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
