package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/iamavinashmourya/FarmCare/internal/models"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

type memoryBlacklistRepo struct {
	mu      sync.RWMutex
	entries map[string]models.BlacklistedToken
}

// NewMemoryBlacklistRepository is a process-local blacklist for single-instance
// deployments and tests. Entries are lost on restart.
func NewMemoryBlacklistRepository() BlacklistRepository {
	return &memoryBlacklistRepo{entries: make(map[string]models.BlacklistedToken)}
}

func (r *memoryBlacklistRepo) Insert(_ context.Context, token string, revokedAt, expiresAt time.Time) error {
	h := utils.HashToken(token)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[h]; !ok {
		r.entries[h] = models.BlacklistedToken{TokenHash: h, RevokedAt: revokedAt, ExpiresAt: expiresAt}
	}
	return nil
}

func (r *memoryBlacklistRepo) Contains(_ context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[utils.HashToken(token)]
	return ok, nil
}

func (r *memoryBlacklistRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for h, e := range r.entries {
		if e.ExpiresAt.Before(before) {
			delete(r.entries, h)
			n++
		}
	}
	return n, nil
}
