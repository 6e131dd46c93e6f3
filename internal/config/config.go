package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

type BlacklistBackend string

const (
	BlacklistPostgres BlacklistBackend = "postgres"
	BlacklistRedis    BlacklistBackend = "redis"
	BlacklistMemory   BlacklistBackend = "memory"
)

// Config holds all application configuration.
type Config struct {
	OrganizationName string
	AppName          string
	Env              string
	AppPort          string
	AppUrl           string
	DBUrl            string

	JWTSecret     []byte
	UserTokenTTL  time.Duration
	AdminTokenTTL time.Duration

	AdminRegistrationKey string

	BlacklistBackend         BlacklistBackend
	RedisURL                 string
	BlacklistCleanupSchedule string

	OpenAIAPIKey string
	OpenAIModel  string

	MaxUploadBytes     int64
	LoginRatePerMinute int
	CORSAllowedOrigins []string
}

// Defaults.
const (
	OrganizationName                = utils.OrganizationName
	DefaultAppPort                  = "5000"
	DefaultUserTokenTTL             = 10 * 24 * time.Hour
	DefaultAdminTokenTTL            = 5 * time.Hour
	DefaultOpenAIModel              = "gpt-4o-mini"
	DefaultMaxUploadBytes           = 5 << 20
	DefaultLoginRatePerMinute       = 10
	DefaultBlacklistCleanupSchedule = "5 3 * * *"
)

// AppName may be overridden with ldflags at build time.
var AppName = "farmcare-backend"

// LoadConfig reads the environment (and a .env file when present) and fatals
// on anything missing or invalid.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		utils.Logger.WithError(err).Warn("Could not parse .env file; continuing with process environment")
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	cfg, err := Load(os.Getenv)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid configuration")
	}

	utils.Logger.Debugf("App can be accessed at: %s", cfg.AppUrl)
	return cfg
}

// Load builds a Config from getenv. All problems are reported together.
func Load(getenv func(string) string) (*Config, error) {
	var errs []error
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }
	required := func(key string) string {
		v := get(key)
		if v == "" {
			errs = append(errs, fmt.Errorf("%s env var is missing", key))
		}
		return v
	}
	duration := func(key string, def time.Duration) time.Duration {
		raw := get(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be a positive duration, got %q", key, raw))
			return def
		}
		return d
	}
	integer := func(key string, def int64) int64 {
		raw := get(key)
		if raw == "" {
			return def
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw))
			return def
		}
		return n
	}

	cfg := &Config{
		OrganizationName: OrganizationName,
		AppName:          AppName,
		Env:              orDefault(get("ENV"), "dev"),
		AppPort:          orDefault(get("APP_PORT"), DefaultAppPort),
		DBUrl:            required("DB_URL"),

		JWTSecret:     []byte(required("JWT_SECRET")),
		UserTokenTTL:  duration("USER_TOKEN_TTL", DefaultUserTokenTTL),
		AdminTokenTTL: duration("ADMIN_TOKEN_TTL", DefaultAdminTokenTTL),

		AdminRegistrationKey: required("ADMIN_REGISTRATION_KEY"),

		BlacklistBackend:         BlacklistBackend(strings.ToLower(orDefault(get("BLACKLIST_BACKEND"), string(BlacklistPostgres)))),
		RedisURL:                 get("REDIS_URL"),
		BlacklistCleanupSchedule: orDefault(get("BLACKLIST_CLEANUP_SCHEDULE"), DefaultBlacklistCleanupSchedule),

		OpenAIAPIKey: get("OPENAI_API_KEY"),
		OpenAIModel:  orDefault(get("OPENAI_MODEL"), DefaultOpenAIModel),

		MaxUploadBytes:     integer("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		LoginRatePerMinute: int(integer("LOGIN_RATE_PER_MINUTE", DefaultLoginRatePerMinute)),
	}
	cfg.AppUrl = orDefault(get("APP_URL"), "http://localhost:"+cfg.AppPort)

	if len(cfg.JWTSecret) > 0 && len(cfg.JWTSecret) < auth.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", auth.MinSecretLength))
	}

	switch cfg.BlacklistBackend {
	case BlacklistPostgres, BlacklistMemory:
	case BlacklistRedis:
		if cfg.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL env var is missing (required for BLACKLIST_BACKEND=redis)"))
		}
	default:
		errs = append(errs, fmt.Errorf("BLACKLIST_BACKEND must be postgres, redis or memory, got %q", cfg.BlacklistBackend))
	}

	if _, err := cron.ParseStandard(cfg.BlacklistCleanupSchedule); err != nil {
		errs = append(errs, fmt.Errorf("BLACKLIST_CLEANUP_SCHEDULE: %w", err))
	}

	if cfg.MaxUploadBytes == 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}

	cfg.CORSAllowedOrigins = []string{utils.CORSProductionOrigin, utils.CORSLocalDevOrigin}
	if raw := get("CORS_ALLOWED_ORIGINS"); raw != "" {
		cfg.CORSAllowedOrigins = nil
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// TokenLifetimes is the per-role session length for the auth guard.
func (c *Config) TokenLifetimes() auth.Lifetimes {
	return auth.Lifetimes{User: c.UserTokenTTL, Admin: c.AdminTokenTTL}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
