package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"DB_URL":                 "postgres://farmcare@localhost/farmcare",
		"JWT_SECRET":             "an-hmac-secret-that-is-long-enough!!",
		"ADMIN_REGISTRATION_KEY": "let-me-in",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(envFrom(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.AppPort)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 240*time.Hour, cfg.UserTokenTTL)
	assert.Equal(t, 5*time.Hour, cfg.AdminTokenTTL)
	assert.Equal(t, BlacklistPostgres, cfg.BlacklistBackend)
	assert.Equal(t, DefaultOpenAIModel, cfg.OpenAIModel)
	assert.EqualValues(t, 5<<20, cfg.MaxUploadBytes)
	assert.Equal(t, 10, cfg.LoginRatePerMinute)
	assert.Equal(t, "5 3 * * *", cfg.BlacklistCleanupSchedule)
	assert.Equal(t, []string{utils.CORSProductionOrigin, utils.CORSLocalDevOrigin}, cfg.CORSAllowedOrigins)

	lt := cfg.TokenLifetimes()
	assert.Equal(t, cfg.UserTokenTTL, lt.User)
	assert.Equal(t, cfg.AdminTokenTTL, lt.Admin)
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["USER_TOKEN_TTL"] = "48h"
	env["ADMIN_TOKEN_TTL"] = "30m"
	env["BLACKLIST_BACKEND"] = "Redis"
	env["REDIS_URL"] = "redis://localhost:6379/0"
	env["CORS_ALLOWED_ORIGINS"] = " https://a.example , ,https://b.example"
	env["LOGIN_RATE_PER_MINUTE"] = "0"

	cfg, err := Load(envFrom(env))
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, cfg.UserTokenTTL)
	assert.Equal(t, 30*time.Minute, cfg.AdminTokenTTL)
	assert.Equal(t, BlacklistRedis, cfg.BlacklistBackend)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 0, cfg.LoginRatePerMinute)
}

func TestLoadReportsEveryProblem(t *testing.T) {
	env := map[string]string{
		"JWT_SECRET":                 "short",
		"USER_TOKEN_TTL":             "forever",
		"BLACKLIST_BACKEND":          "redis",
		"BLACKLIST_CLEANUP_SCHEDULE": "every tuesday",
	}
	_, err := Load(envFrom(env))
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{"DB_URL", "ADMIN_REGISTRATION_KEY", "JWT_SECRET", "USER_TOKEN_TTL", "REDIS_URL", "BLACKLIST_CLEANUP_SCHEDULE"} {
		assert.Contains(t, msg, want)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	env := baseEnv()
	env["BLACKLIST_BACKEND"] = "etcd"
	_, err := Load(envFrom(env))
	require.ErrorContains(t, err, "BLACKLIST_BACKEND")
}
