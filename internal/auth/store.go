package auth

import (
	"context"
	"time"
)

// TokenBlacklistStore records revoked tokens. The Guard always passes tokens
// through RevocationKey first, so stores may compare them as plain strings.
// Implementations must give read-your-writes: once Insert returns nil,
// Contains for the same token reports true.
type TokenBlacklistStore interface {
	// Contains reports whether the raw token has been revoked.
	Contains(ctx context.Context, token string) (bool, error)

	// Insert records the raw token as revoked at revokedAt. expiresAt is the
	// token's own expiry and only drives retention. Inserting an existing
	// token is not an error.
	Insert(ctx context.Context, token string, revokedAt, expiresAt time.Time) error
}
