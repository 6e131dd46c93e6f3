package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgconn"

	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// DefaultUpdateAttempts bounds how many lost races a profile edit tolerates
// before the caller is told to resubmit.
const DefaultUpdateAttempts = 3

// conflictBackoff is the pause after the first lost race; it doubles per attempt.
var conflictBackoff = 15 * time.Millisecond

// EntityWithVersion is a row guarded by its row_version column.
type EntityWithVersion interface {
	comparable
	GetID() string
	GetRowVersion() int64
	SetRowVersion(int64)
}

// UpdateIfVersionFunc writes entity only if its stored row_version still
// equals expectedVersion; the command tag reports whether it did.
type UpdateIfVersionFunc[T EntityWithVersion] func(
	ctx context.Context,
	entity T,
	expectedVersion int64,
) (pgconn.CommandTag, error)

type GetByIDFunc[T EntityWithVersion] func(
	ctx context.Context,
	id string,
) (T, error)

/*
WithRetry reloads the row, applies mutate and writes it back guarded by
row_version. A farmer editing the profile from two devices at once loses
at most maxAttempts races before getting utils.ErrRowVersionConflict.

A vanished row is utils.ErrNotFound. mutate errors abort immediately and
are returned as is, so validation failures inside mutate are never retried.
*/
func WithRetry[T EntityWithVersion](
	ctx context.Context,
	maxAttempts int,
	id string,
	getByID GetByIDFunc[T],
	updateIfVersion UpdateIfVersionFunc[T],
	mutate func(T) error,
) error {
	pause := conflictBackoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		current, err := getByID(ctx, id)
		if err != nil {
			return err
		}
		var zero T
		if current == zero {
			return utils.ErrNotFound
		}

		oldVersion := current.GetRowVersion()
		if err := mutate(current); err != nil {
			return err
		}

		tag, err := updateIfVersion(ctx, current, oldVersion)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			current.SetRowVersion(oldVersion + 1)
			return nil
		}

		utils.Logger.WithField("id", id).
			WithField("attempt", attempt).
			Debug("row_version moved under us, reloading")

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
		pause *= 2
	}
	return fmt.Errorf("%w: %q still contended after %d attempts", utils.ErrRowVersionConflict, id, maxAttempts)
}
