package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/config"
	"github.com/iamavinashmourya/FarmCare/internal/repositories"
	"github.com/iamavinashmourya/FarmCare/internal/services"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client

	// Blacklist backs token revocation. Pruner is nil when the backend
	// expires entries on its own (redis).
	Blacklist auth.TokenBlacklistStore
	Pruner    services.ExpiredEntryPruner
}

func NewApp(cfg *config.Config) (*App, error) {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		dbPool, err = connectWithTimeout(cfg.DBUrl)
		if err == nil {
			utils.Logger.Infof("Successfully connected to database on attempt %d", i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed to connect to database on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
		}

		time.Sleep(backoff)
		backoff *= 2
	}

	a := &App{Config: cfg, DB: dbPool}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := repositories.EnsureSchema(ctx, dbPool); err != nil {
		a.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	if err := a.initBlacklist(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) initBlacklist(ctx context.Context) error {
	switch a.Config.BlacklistBackend {
	case config.BlacklistRedis:
		opts, err := redis.ParseURL(a.Config.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		a.Redis = redis.NewClient(opts)
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		a.Blacklist = repositories.NewRedisBlacklistRepository(a.Redis)

	case config.BlacklistMemory:
		repo := repositories.NewMemoryBlacklistRepository()
		a.Blacklist, a.Pruner = repo, repo
		utils.Logger.Warn("Using in-memory token blacklist; revocations are lost on restart")

	default:
		repo := repositories.NewBlacklistRepository(a.DB)
		a.Blacklist, a.Pruner = repo, repo
	}
	utils.Logger.WithField("backend", a.Config.BlacklistBackend).Info("Token blacklist ready")
	return nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			utils.Logger.WithError(err).Warn("Closing redis client")
		}
	}
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("Database connection closed.")
	}
}

func connectWithTimeout(databaseURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return newDBPool(ctx, databaseURL)
}

// newDBPool constructs the pgx pool. Idle sockets are retired before common
// proxies drop them and every connection gets a periodic health check.
func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	return pgxpool.ConnectConfig(ctx, cfg)
}
