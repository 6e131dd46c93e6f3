package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// BlacklistRepository is a token blacklist whose entries can be pruned once
// the tokens they cover have expired on their own.
type BlacklistRepository interface {
	auth.TokenBlacklistStore
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type pgBlacklistRepo struct {
	db DB
}

func NewBlacklistRepository(db DB) BlacklistRepository {
	return &pgBlacklistRepo{db: db}
}

func (r *pgBlacklistRepo) Insert(ctx context.Context, token string, revokedAt, expiresAt time.Time) error {
	query := `
		INSERT INTO blacklisted_tokens (id, token_hash, revoked_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token_hash) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, uuid.New(), utils.HashToken(token), revokedAt, expiresAt)
	return err
}

// Contains ignores expires_at: a revoked token stays revoked until pruned.
func (r *pgBlacklistRepo) Contains(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM blacklisted_tokens WHERE token_hash = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, utils.HashToken(token)).Scan(&exists)
	return exists, err
}

func (r *pgBlacklistRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM blacklisted_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
