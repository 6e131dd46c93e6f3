package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgconn"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/metrics"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// One retry on transient network errors (EOF, closed connection) after a
// short pause.
var cleanupRetryDelay = 3 * time.Second

// ExpiredEntryPruner deletes blacklist entries whose token expired before a
// given instant. Such tokens already fail verification as expired.
type ExpiredEntryPruner interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// BlacklistCleanupService prunes the revocation blacklist each night.
type BlacklistCleanupService interface {
	CleanupDaily(ctx context.Context) error
}

type blacklistCleanupService struct {
	pruner ExpiredEntryPruner
	clock  auth.Clock
}

func NewBlacklistCleanupService(pruner ExpiredEntryPruner, clock auth.Clock) BlacklistCleanupService {
	return &blacklistCleanupService{pruner: pruner, clock: clock}
}

func (s *blacklistCleanupService) runWithRetry(
	ctx context.Context,
	op func(context.Context) error,
) error {
	if err := op(ctx); err != nil {
		if errors.Is(err, io.EOF) || pgconn.SafeToRetry(err) ||
			strings.Contains(err.Error(), "connection was closed") {
			utils.Logger.WithError(err).Warn("blacklist cleanup hit transient DB error; retrying once")
			select {
			case <-time.After(cleanupRetryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
			return op(ctx)
		}
		return err
	}
	return nil
}

// CleanupDaily removes entries for tokens that expired before now.
func (s *blacklistCleanupService) CleanupDaily(ctx context.Context) error {
	var pruned int64
	err := s.runWithRetry(ctx, func(ctx context.Context) error {
		n, err := s.pruner.DeleteExpired(ctx, s.clock.Now())
		pruned = n
		return err
	})
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to prune expired blacklist entries")
		return err
	}

	metrics.BlacklistEntriesPrunedTotal.Add(float64(pruned))
	utils.Logger.WithField("pruned", pruned).Info("Daily blacklist cleanup completed successfully.")
	return nil
}
