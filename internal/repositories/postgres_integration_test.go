package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/iamavinashmourya/FarmCare/internal/models"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// openTestDB connects to TEST_DB_URL and skips the test when it is unset.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DB_URL")
	if url == "" {
		t.Skip("TEST_DB_URL not set; skipping Postgres integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, EnsureSchema(ctx, pool))
	return pool
}

func TestPostgresBlacklist(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewBlacklistRepository(db)

	tok := "integration-" + utils.RandomString(12)
	now := time.Now().UTC()
	t.Cleanup(func() {
		_, _ = db.Exec(context.Background(), `DELETE FROM blacklisted_tokens WHERE token_hash=$1`, utils.HashToken(tok))
	})

	require.NoError(t, repo.Insert(ctx, tok, now, now.Add(-time.Minute)))
	require.NoError(t, repo.Insert(ctx, tok, now, now.Add(time.Hour)))

	ok, err := repo.Contains(ctx, tok)
	require.NoError(t, err)
	require.True(t, ok)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, int64(1))

	ok, err = repo.Contains(ctx, tok)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPostgresUserProfileUpdate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	suffix := utils.RandomNumericString(9)
	u := &models.User{
		ID:                      uuid.New(),
		FullName:                "Test Farmer",
		Email:                   "farmer-" + suffix + "@example.com",
		Mobile:                  "9" + suffix,
		PasswordHash:            "x",
		Status:                  models.AccountStatusActive,
		NotificationPreferences: models.DefaultNotificationPreferences(),
	}
	require.NoError(t, repo.Create(ctx, u))
	t.Cleanup(func() { _, _ = db.Exec(context.Background(), `DELETE FROM users WHERE id=$1`, u.ID) })

	dup := *u
	dup.ID = uuid.New()
	dup.Mobile = "8" + suffix
	require.ErrorIs(t, repo.Create(ctx, &dup), utils.ErrEmailExists)

	found, err := repo.FindByIdentifier(ctx, u.Mobile)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, u.ID, found.ID)

	err = repo.UpdateWithRetry(ctx, u.ID, func(cur *models.User) error {
		cur.FullName = "Renamed Farmer"
		return nil
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed Farmer", got.FullName)
	require.EqualValues(t, 2, got.RowVersion)
	require.True(t, got.NotificationPreferences.GovtScheme)
}
