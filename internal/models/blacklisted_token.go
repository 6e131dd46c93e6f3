package models

import (
	"time"

	"github.com/google/uuid"
)

// BlacklistedToken is a revoked session token. Only the token hash is stored.
type BlacklistedToken struct {
	ID        uuid.UUID `json:"id"`
	TokenHash string    `json:"token_hash"`
	RevokedAt time.Time `json:"revoked_at"`
	ExpiresAt time.Time `json:"expires_at"` // the token's own expiry; drives pruning
}
