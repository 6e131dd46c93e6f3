package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef-test")

var defaultLifetimes = Lifetimes{User: 240 * time.Hour, Admin: 5 * time.Hour}

type fakeBlacklist struct {
	mu       sync.Mutex
	entries  map[string]time.Time
	lookups  int
	inserts  int
	failWith error
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{entries: map[string]time.Time{}}
}

func (f *fakeBlacklist) Contains(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.failWith != nil {
		return false, f.failWith
	}
	_, ok := f.entries[token]
	return ok, nil
}

func (f *fakeBlacklist) Insert(_ context.Context, token string, _, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.entries[token]; !ok {
		f.entries[token] = expiresAt
	}
	return nil
}

func newTestGuard(t *testing.T) (*Guard, *fakeBlacklist) {
	t.Helper()
	bl := newFakeBlacklist()
	g, err := NewGuard(testSecret, defaultLifetimes, bl)
	require.NoError(t, err)
	return g, bl
}

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewGuardRejectsBadConfig(t *testing.T) {
	bl := newFakeBlacklist()

	_, err := NewGuard([]byte("short"), defaultLifetimes, bl)
	require.Error(t, err)

	_, err = NewGuard(testSecret, Lifetimes{User: time.Hour}, bl)
	require.Error(t, err)

	_, err = NewGuard(testSecret, defaultLifetimes, nil)
	require.Error(t, err)
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	g, bl := newTestGuard(t)
	ctx := context.Background()

	for _, isAdmin := range []bool{false, true} {
		token, exp, err := g.IssueToken("user-42", isAdmin, t0)
		require.NoError(t, err)
		require.True(t, t0.Add(defaultLifetimes.For(isAdmin)).Equal(exp))
		require.Equal(t, 2, strings.Count(token, "."))

		p, err := g.VerifyToken(ctx, token, t0.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, "user-42", p.SubjectID)
		assert.Equal(t, isAdmin, p.IsAdmin)
		assert.NotEmpty(t, p.TokenID)
		assert.True(t, exp.Equal(p.ExpiresAt))
	}
	require.Equal(t, 2, bl.lookups)
}

func TestIssueTokenRejectsEmptySubject(t *testing.T) {
	g, _ := newTestGuard(t)
	_, _, err := g.IssueToken("  ", false, t0)
	require.Error(t, err)
}

func TestTokensAreUniquePerIssue(t *testing.T) {
	g, _ := newTestGuard(t)
	a, _, err := g.IssueToken("u1", false, t0)
	require.NoError(t, err)
	b, _, err := g.IssueToken("u1", false, t0)
	require.NoError(t, err)
	require.NotEqual(t, a, b, "jti should make same-second tokens distinct")
}

func TestExpiryBoundary(t *testing.T) {
	g, bl := newTestGuard(t)
	ctx := context.Background()

	token, exp, err := g.IssueToken("u1", false, t0)
	require.NoError(t, err)

	_, err = g.VerifyToken(ctx, token, exp.Add(-time.Second))
	require.NoError(t, err)

	_, err = g.VerifyToken(ctx, token, exp)
	require.ErrorIs(t, err, ErrExpired)

	_, err = g.VerifyToken(ctx, token, exp.Add(time.Hour))
	require.ErrorIs(t, err, ErrExpired)

	// Expired tokens are rejected before the blacklist is consulted.
	require.Equal(t, 1, bl.lookups)
}

func TestUserTenDayScenario(t *testing.T) {
	g, _ := newTestGuard(t)
	ctx := context.Background()

	token, _, err := g.IssueToken("farmer-1", false, t0)
	require.NoError(t, err)

	p, err := g.VerifyToken(ctx, token, t0.Add(9*24*time.Hour))
	require.NoError(t, err)
	require.False(t, p.IsAdmin)

	_, err = g.VerifyToken(ctx, token, t0.Add(11*24*time.Hour))
	require.ErrorIs(t, err, ErrExpired)
}

func TestAdminRevokedScenario(t *testing.T) {
	g, _ := newTestGuard(t)
	ctx := context.Background()

	token, exp, err := g.IssueToken("admin-1", true, t0)
	require.NoError(t, err)
	require.True(t, t0.Add(5*time.Hour).Equal(exp))

	p, err := g.VerifyToken(ctx, token, t0)
	require.NoError(t, err)
	require.NoError(t, g.RequireRole(p, RoleAdmin))

	require.NoError(t, g.Revoke(ctx, token, t0))

	_, err = g.VerifyToken(ctx, token, t0.Add(time.Minute))
	require.ErrorIs(t, err, ErrRevoked)
}

func TestRevocationIsMonotonic(t *testing.T) {
	g, _ := newTestGuard(t)
	ctx := context.Background()

	token, exp, err := g.IssueToken("u1", false, t0)
	require.NoError(t, err)
	require.NoError(t, g.Revoke(ctx, token, t0))

	for _, at := range []time.Time{t0, t0.Add(time.Hour), t0.Add(48 * time.Hour), exp.Add(-time.Second)} {
		_, err := g.VerifyToken(ctx, token, at)
		require.ErrorIs(t, err, ErrRevoked, "at %s", at)
	}
	// Past expiry the expiry check wins, but the token is still rejected.
	_, err = g.VerifyToken(ctx, token, exp.Add(time.Second))
	require.ErrorIs(t, err, ErrExpired)
}

func TestRevokeIsIdempotent(t *testing.T) {
	g, bl := newTestGuard(t)
	ctx := context.Background()

	token, exp, err := g.IssueToken("u1", false, t0)
	require.NoError(t, err)

	require.NoError(t, g.Revoke(ctx, token, t0))
	require.NoError(t, g.Revoke(ctx, token, t0.Add(time.Minute)))
	require.Len(t, bl.entries, 1)
	require.True(t, exp.Equal(bl.entries[token]))

	_, err = g.VerifyToken(ctx, token, t0.Add(2*time.Minute))
	require.ErrorIs(t, err, ErrRevoked)
}

func TestRevokeAcceptsExpiredAndMalformedTokens(t *testing.T) {
	g, bl := newTestGuard(t)
	ctx := context.Background()

	token, exp, err := g.IssueToken("u1", false, t0)
	require.NoError(t, err)
	require.NoError(t, g.Revoke(ctx, token, exp.Add(time.Hour)))
	require.True(t, exp.Equal(bl.entries[token]))

	require.NoError(t, g.Revoke(ctx, "garbage", t0))
	require.True(t, t0.Add(defaultLifetimes.User).Equal(bl.entries["garbage"]))

	require.ErrorIs(t, g.Revoke(ctx, "", t0), ErrMissingToken)
}

func TestSignatureTamperingIsDetected(t *testing.T) {
	g, bl := newTestGuard(t)
	ctx := context.Background()

	token, _, err := g.IssueToken("u1", false, t0)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig := parts[2]
	for i := 0; i < len(sig); i++ {
		for bit := 0; bit < 8; bit++ {
			flipped := []byte(sig)
			flipped[i] ^= 1 << bit
			tampered := parts[0] + "." + parts[1] + "." + string(flipped)

			_, err := g.VerifyToken(ctx, tampered, t0)
			if strings.Count(tampered, ".") != 2 {
				require.ErrorIs(t, err, ErrMalformed, "char %d bit %d", i, bit)
				continue
			}
			require.ErrorIs(t, err, ErrInvalidSignature, "char %d bit %d", i, bit)
		}
	}
	require.Zero(t, bl.lookups)
}

// signatureRespellings returns copies of token whose last signature character
// differs only in bits the decoder discards.
func signatureRespellings(t *testing.T, token string) []string {
	t.Helper()
	parts := strings.Split(token, ".")
	mac, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	head := parts[2][:len(parts[2])-1]
	var out []string
	for _, c := range alphabet {
		sig := head + string(c)
		if sig == parts[2] {
			continue
		}
		got, err := base64.RawURLEncoding.DecodeString(sig)
		if err == nil && string(got) == string(mac) {
			out = append(out, parts[0]+"."+parts[1]+"."+sig)
		}
	}
	return out
}

func TestSignatureRespellingDoesNotVerify(t *testing.T) {
	g, _ := newTestGuard(t)
	ctx := context.Background()

	token, _, err := g.IssueToken("admin-1", true, t0)
	require.NoError(t, err)

	variants := signatureRespellings(t, token)
	require.NotEmpty(t, variants, "a 32 byte MAC leaves spare bits in the last character")

	parts := strings.Split(token, ".")
	withBreak := parts[0] + "." + parts[1] + "." + parts[2][:10] + "\n" + parts[2][10:]
	variants = append(variants, withBreak)

	for _, v := range variants {
		_, err := g.VerifyToken(ctx, v, t0)
		require.ErrorIs(t, err, ErrInvalidSignature, v)
		require.Equal(t, token, RevocationKey(v))
	}
}

func TestRevocationCoversRespelledTokens(t *testing.T) {
	g, bl := newTestGuard(t)
	ctx := context.Background()

	token, _, err := g.IssueToken("admin-1", true, t0)
	require.NoError(t, err)
	variants := signatureRespellings(t, token)
	require.NotEmpty(t, variants)

	// logging out with a respelled copy still revokes the canonical token
	require.NoError(t, g.Revoke(ctx, variants[0], t0))
	require.Len(t, bl.entries, 1)

	_, err = g.VerifyToken(ctx, token, t0.Add(time.Minute))
	require.ErrorIs(t, err, ErrRevoked)
	for _, v := range variants {
		_, err := g.VerifyToken(ctx, v, t0.Add(time.Minute))
		require.Error(t, err)
	}
}

func TestWrongSecretIsInvalidSignature(t *testing.T) {
	g, _ := newTestGuard(t)
	other, err := NewGuard([]byte("another-secret-another-secret-xx"), defaultLifetimes, newFakeBlacklist())
	require.NoError(t, err)

	token, _, err := other.IssueToken("u1", true, t0)
	require.NoError(t, err)

	_, err = g.VerifyToken(context.Background(), token, t0)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestMalformedTokensNeverReachStore(t *testing.T) {
	g, bl := newTestGuard(t)
	ctx := context.Background()

	good, _, err := g.IssueToken("u1", false, t0)
	require.NoError(t, err)
	parts := strings.Split(good, ".")

	noneHeader := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	hs512Header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS512","typ":"JWT"}`))

	cases := map[string]string{
		"empty":         "",
		"one segment":   "abc",
		"two segments":  parts[0] + "." + parts[1],
		"four segments": good + ".x",
		"empty sig":     parts[0] + "." + parts[1] + ".",
		"bad base64":    "!!!." + parts[1] + "." + parts[2],
		"bad json":      base64.RawURLEncoding.EncodeToString([]byte("{")) + "." + parts[1] + "." + parts[2],
		"alg none":      noneHeader + "." + parts[1] + ".c2ln",
		"alg swapped":   hs512Header + "." + parts[1] + "." + parts[2],
		"bearer prefix": "Bearer something",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := g.VerifyToken(ctx, tok, t0)
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
	require.Zero(t, bl.lookups)
}

func TestStoreFailureFailsClosed(t *testing.T) {
	g, bl := newTestGuard(t)
	ctx := context.Background()

	token, _, err := g.IssueToken("u1", false, t0)
	require.NoError(t, err)

	bl.failWith = errors.New("connection refused")
	p, err := g.VerifyToken(ctx, token, t0)
	require.Nil(t, p)
	require.ErrorIs(t, err, ErrRevocationUnavailable)
	require.False(t, IsAuthorizationError(err))

	require.Error(t, g.Revoke(ctx, token, t0))
}

func TestRequireRoleTable(t *testing.T) {
	user := &Principal{SubjectID: "u", IsAdmin: false}
	admin := &Principal{SubjectID: "a", IsAdmin: true}

	tests := []struct {
		name     string
		p        *Principal
		required Role
		want     error
	}{
		{"user any", user, RoleAny, nil},
		{"user user", user, RoleUser, nil},
		{"user admin", user, RoleAdmin, ErrInsufficientRole},
		{"admin any", admin, RoleAny, nil},
		{"admin user", admin, RoleUser, nil},
		{"admin admin", admin, RoleAdmin, nil},
		{"nil principal", nil, RoleAny, ErrMissingToken},
		{"unknown role", user, Role(99), ErrInsufficientRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireRole(tt.p, tt.required)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
	require.True(t, IsAuthorizationError(RequireRole(user, RoleAdmin)))
}

func TestConcurrentVerify(t *testing.T) {
	g, _ := newTestGuard(t)
	ctx := context.Background()
	token, _, err := g.IssueToken("u1", false, t0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.VerifyToken(ctx, token, t0)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
