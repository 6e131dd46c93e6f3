package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/iamavinashmourya/FarmCare/internal/models"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

type versionedRow struct {
	models.Versioned
	ID   string
	Name string
}

func (v *versionedRow) GetID() string { return v.ID }

func TestWithRetry(t *testing.T) {
	ctx := context.Background()
	prev := conflictBackoff
	conflictBackoff = time.Millisecond
	t.Cleanup(func() { conflictBackoff = prev })

	t.Run("SucceedsAfterLostRace", func(t *testing.T) {
		stored := &versionedRow{ID: "a", Name: "old"}
		stored.RowVersion = 1
		calls := 0

		get := func(context.Context, string) (*versionedRow, error) {
			cp := *stored
			return &cp, nil
		}
		update := func(_ context.Context, e *versionedRow, expected int64) (pgconn.CommandTag, error) {
			calls++
			if calls == 1 {
				stored.RowVersion++ // a concurrent writer got there first
				return pgconn.CommandTag("UPDATE 0"), nil
			}
			if expected != stored.RowVersion {
				return pgconn.CommandTag("UPDATE 0"), nil
			}
			stored.Name = e.Name
			stored.RowVersion++
			return pgconn.CommandTag("UPDATE 1"), nil
		}

		err := WithRetry(ctx, 3, "a", get, update, func(e *versionedRow) error {
			e.Name = "new"
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 2, calls)
		require.Equal(t, "new", stored.Name)
		require.EqualValues(t, 3, stored.RowVersion)
	})

	t.Run("GivesUpWithConflict", func(t *testing.T) {
		get := func(context.Context, string) (*versionedRow, error) {
			return &versionedRow{ID: "a"}, nil
		}
		writes := 0
		update := func(context.Context, *versionedRow, int64) (pgconn.CommandTag, error) {
			writes++
			return pgconn.CommandTag("UPDATE 0"), nil
		}
		err := WithRetry(ctx, DefaultUpdateAttempts, "a", get, update, func(*versionedRow) error { return nil })
		require.ErrorIs(t, err, utils.ErrRowVersionConflict)
		require.Equal(t, DefaultUpdateAttempts, writes)
	})

	t.Run("StopsWhenContextCancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()
		get := func(context.Context, string) (*versionedRow, error) {
			return &versionedRow{ID: "a"}, nil
		}
		update := func(context.Context, *versionedRow, int64) (pgconn.CommandTag, error) {
			cancel()
			return pgconn.CommandTag("UPDATE 0"), nil
		}
		err := WithRetry(cctx, DefaultUpdateAttempts, "a", get, update, func(*versionedRow) error { return nil })
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("MissingRow", func(t *testing.T) {
		get := func(context.Context, string) (*versionedRow, error) { return nil, nil }
		err := WithRetry(ctx, 3, "a", get, nil, func(*versionedRow) error { return nil })
		require.ErrorIs(t, err, utils.ErrNotFound)
	})

	t.Run("MutateErrorAborts", func(t *testing.T) {
		boom := errors.New("boom")
		get := func(context.Context, string) (*versionedRow, error) { return &versionedRow{ID: "a"}, nil }
		err := WithRetry(ctx, 3, "a", get, nil, func(*versionedRow) error { return boom })
		require.ErrorIs(t, err, boom)
	})
}
