package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/repositories"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

var (
	testSecret = []byte("middleware-test-secret-0123456789abcdef")
	testNow    = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	testClock  = auth.ClockFunc(func() time.Time { return testNow })
)

// countingStore wraps a blacklist and counts lookups; failWith forces errors.
type countingStore struct {
	inner    auth.TokenBlacklistStore
	lookups  atomic.Int32
	failWith error
}

func (c *countingStore) Contains(ctx context.Context, token string) (bool, error) {
	c.lookups.Add(1)
	if c.failWith != nil {
		return false, c.failWith
	}
	return c.inner.Contains(ctx, token)
}

func (c *countingStore) Insert(ctx context.Context, token string, revokedAt, expiresAt time.Time) error {
	return c.inner.Insert(ctx, token, revokedAt, expiresAt)
}

func newGuard(t *testing.T) (*auth.Guard, *countingStore) {
	t.Helper()
	store := &countingStore{inner: repositories.NewMemoryBlacklistRepository()}
	g, err := auth.NewGuard(testSecret, auth.Lifetimes{User: 240 * time.Hour, Admin: 5 * time.Hour}, store)
	require.NoError(t, err)
	return g, store
}

func issue(t *testing.T, g *auth.Guard, sub string, admin bool, at time.Time) string {
	t.Helper()
	tok, _, err := g.IssueToken(sub, admin, at)
	require.NoError(t, err)
	return tok
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"user_id": UserIDFromContext(r.Context())})
}

func doRequest(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body.Code
}

func TestAuthMiddleware(t *testing.T) {
	g, store := newGuard(t)
	ctx := context.Background()

	userTok := issue(t, g, "farmer-1", false, testNow)
	adminTok := issue(t, g, "admin-1", true, testNow)
	expiredTok := issue(t, g, "farmer-1", false, testNow.Add(-241*time.Hour))
	revokedTok := issue(t, g, "farmer-2", false, testNow)
	require.NoError(t, g.Revoke(ctx, revokedTok, testNow))

	userRoute := AuthMiddleware(g, testClock, auth.RoleUser)(http.HandlerFunc(okHandler))
	adminRoute := AuthMiddleware(g, testClock, auth.RoleAdmin)(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		h      http.Handler
		token  string
		status int
		code   string
	}{
		{"missing token", userRoute, "", http.StatusUnauthorized, utils.ErrCodeUnauthorized},
		{"garbage token", userRoute, "not.a.jwt", http.StatusUnauthorized, utils.ErrCodeTokenMalformed},
		{"expired token", userRoute, expiredTok, http.StatusUnauthorized, utils.ErrCodeTokenExpired},
		{"revoked token", userRoute, revokedTok, http.StatusUnauthorized, utils.ErrCodeTokenRevoked},
		{"user on user route", userRoute, userTok, http.StatusOK, ""},
		{"admin on user route", userRoute, adminTok, http.StatusOK, ""},
		{"user on admin route", adminRoute, userTok, http.StatusForbidden, utils.ErrCodeForbidden},
		{"admin on admin route", adminRoute, adminTok, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(tt.h, http.MethodGet, "/x", tt.token)
			require.Equal(t, tt.status, rr.Code)
			if tt.code != "" {
				require.Equal(t, tt.code, errorCode(t, rr))
			}
		})
	}

	t.Run("store failure fails closed", func(t *testing.T) {
		store.failWith = errors.New("db down")
		defer func() { store.failWith = nil }()

		rr := doRequest(userRoute, http.MethodGet, "/x", userTok)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("non bearer scheme is missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
		rr := httptest.NewRecorder()
		userRoute.ServeHTTP(rr, req)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRevocationPrecheck(t *testing.T) {
	g, store := newGuard(t)
	ctx := context.Background()

	r := mux.NewRouter()
	r.Use(RevocationPrecheck(g, "user_login"))
	r.HandleFunc("/user/login", okHandler).Name("user_login")
	r.HandleFunc("/schemes", okHandler).Name("schemes")
	r.Handle("/user/profile", AuthMiddleware(g, testClock, auth.RoleUser)(http.HandlerFunc(okHandler))).Name("profile")

	live := issue(t, g, "farmer-1", false, testNow)
	revoked := issue(t, g, "farmer-2", false, testNow)
	require.NoError(t, g.Revoke(ctx, revoked, testNow))

	t.Run("revoked token rejected on public route", func(t *testing.T) {
		rr := doRequest(r, http.MethodGet, "/schemes", revoked)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.Equal(t, utils.ErrCodeTokenRevoked, errorCode(t, rr))
	})

	t.Run("revoked token past expiry still reported revoked", func(t *testing.T) {
		stale := issue(t, g, "farmer-3", false, testNow.Add(-300*time.Hour))
		require.NoError(t, g.Revoke(ctx, stale, testNow.Add(-299*time.Hour)))

		rr := doRequest(r, http.MethodGet, "/schemes", stale)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.Equal(t, utils.ErrCodeTokenRevoked, errorCode(t, rr))
	})

	t.Run("exempt route ignores revoked token", func(t *testing.T) {
		rr := doRequest(r, http.MethodPost, "/user/login", revoked)
		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("no header skips lookup", func(t *testing.T) {
		before := store.lookups.Load()
		rr := doRequest(r, http.MethodGet, "/schemes", "")
		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, before, store.lookups.Load())
	})

	t.Run("protected route looks up once", func(t *testing.T) {
		before := store.lookups.Load()
		rr := doRequest(r, http.MethodGet, "/user/profile", live)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, before+1, store.lookups.Load())

		var body map[string]string
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		require.Equal(t, "farmer-1", body["user_id"])
	})

	t.Run("store failure on public route fails closed", func(t *testing.T) {
		store.failWith = errors.New("db down")
		defer func() { store.failWith = nil }()

		rr := doRequest(r, http.MethodGet, "/schemes", live)
		require.Equal(t, http.StatusUnauthorized, rr.Code)

		rr = doRequest(r, http.MethodGet, "/schemes", "")
		require.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestLoginRateLimit(t *testing.T) {
	h := LoginRateLimit(2)(http.HandlerFunc(okHandler))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/user/login", nil)
		req.RemoteAddr = ip + ":5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	require.Equal(t, http.StatusOK, send("10.0.0.1"))
	require.Equal(t, http.StatusOK, send("10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	require.Equal(t, http.StatusOK, send("10.0.0.2"), "buckets are per IP")
}

func TestLoginRateLimitDisabled(t *testing.T) {
	h := LoginRateLimit(0)(http.HandlerFunc(okHandler))
	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "/user/login", "").Code)
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rr := doRequest(h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, utils.ErrCodeInternal, errorCode(t, rr))
}

func TestIPLimiterDropsIdleBuckets(t *testing.T) {
	lim := newIPLimiter(1, 1, time.Minute)
	now := testNow
	require.True(t, lim.allow("a", now))
	require.False(t, lim.allow("a", now))
	require.True(t, lim.allow("b", now.Add(2*time.Minute)))
	require.Len(t, lim.entries, 1)
}
