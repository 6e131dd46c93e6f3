package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer is stamped into the "iss" claim of every session token.
const TokenIssuer = "FarmCare"

// MinSecretLength is the shortest HMAC secret NewGuard accepts.
const MinSecretLength = 32

// Lifetimes holds the per-role session length. Admin sessions are shorter.
type Lifetimes struct {
	User  time.Duration
	Admin time.Duration
}

// For returns the lifetime of a token with the given role flag.
func (l Lifetimes) For(isAdmin bool) time.Duration {
	if isAdmin {
		return l.Admin
	}
	return l.User
}

func (l Lifetimes) longest() time.Duration {
	if l.Admin > l.User {
		return l.Admin
	}
	return l.User
}

type sessionClaims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// Guard issues and verifies HS256 session tokens and enforces roles.
// It holds no mutable state and is safe for concurrent use.
type Guard struct {
	secret    []byte
	lifetimes Lifetimes
	blacklist TokenBlacklistStore
}

// NewGuard validates its inputs once at startup.
func NewGuard(secret []byte, lifetimes Lifetimes, blacklist TokenBlacklistStore) (*Guard, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("auth: secret must be at least %d bytes", MinSecretLength)
	}
	if lifetimes.User <= 0 || lifetimes.Admin <= 0 {
		return nil, errors.New("auth: token lifetimes must be positive")
	}
	if blacklist == nil {
		return nil, errors.New("auth: nil blacklist store")
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Guard{secret: key, lifetimes: lifetimes, blacklist: blacklist}, nil
}

// Lifetimes returns the configured per-role lifetimes.
func (g *Guard) Lifetimes() Lifetimes { return g.lifetimes }

// IssueToken signs {sub, is_admin, exp} where exp = now + lifetime(isAdmin).
// The returned expiry is truncated to the second, matching what the token carries.
func (g *Guard) IssueToken(subjectID string, isAdmin bool, now time.Time) (string, time.Time, error) {
	if strings.TrimSpace(subjectID) == "" {
		return "", time.Time{}, errors.New("auth: empty subject id")
	}

	exp := jwt.NewNumericDate(now.Add(g.lifetimes.For(isAdmin)))
	claims := sessionClaims{
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: exp,
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, exp.Time.UTC(), nil
}

// VerifyToken runs, in order: structure, signature, expiry, revocation.
// Only the last step touches storage, so malformed or expired tokens never
// cost a lookup. A failing lookup is reported as ErrRevocationUnavailable.
func (g *Guard) VerifyToken(ctx context.Context, token string, now time.Time) (*Principal, error) {
	p, err := g.VerifySignature(token, now)
	if err != nil {
		return nil, err
	}
	if err := g.CheckRevocation(ctx, token); err != nil {
		return nil, err
	}
	return p, nil
}

// VerifySignature runs the three local checks of VerifyToken and skips the
// blacklist. Callers that use it directly must run CheckRevocation themselves.
func (g *Guard) VerifySignature(token string, now time.Time) (*Principal, error) {
	parts, ok := splitSegments(token)
	if !ok {
		return nil, ErrMalformed
	}
	if !canonicalSegment(parts[0]) || !canonicalSegment(parts[1]) {
		return nil, ErrMalformed
	}
	// Only the canonical spelling of the MAC verifies.
	if !canonicalSegment(parts[2]) {
		return nil, ErrInvalidSignature
	}

	parser := jwt.NewParser(
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithStrictDecoding(),
	)

	var claims sessionClaims
	_, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if claims.Subject == "" {
		return nil, ErrMalformed
	}

	return &Principal{
		SubjectID: claims.Subject,
		IsAdmin:   claims.IsAdmin,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

// CheckRevocation consults the blacklist and fails closed.
func (g *Guard) CheckRevocation(ctx context.Context, token string) error {
	revoked, err := g.blacklist.Contains(ctx, RevocationKey(token))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRevocationUnavailable, err)
	}
	if revoked {
		return ErrRevoked
	}
	return nil
}

// RequireRole checks an already verified principal. RoleUser admits admins too.
func (g *Guard) RequireRole(p *Principal, required Role) error {
	return RequireRole(p, required)
}

// RequireRole is the stateless form of Guard.RequireRole.
func RequireRole(p *Principal, required Role) error {
	if p == nil {
		return ErrMissingToken
	}
	switch required {
	case RoleAny, RoleUser:
		return nil
	case RoleAdmin:
		if p.IsAdmin {
			return nil
		}
		return ErrInsufficientRole
	}
	return fmt.Errorf("%w: unknown role %s", ErrInsufficientRole, required)
}

// Revoke blacklists token unconditionally. Expired, previously revoked and
// even unparsable tokens are accepted; re-revoking is a no-op success.
func (g *Guard) Revoke(ctx context.Context, token string, now time.Time) error {
	if token == "" {
		return ErrMissingToken
	}
	return g.blacklist.Insert(ctx, RevocationKey(token), now, g.retainUntil(token, now))
}

// retainUntil picks how long a blacklist entry must outlive now: the token's
// own expiry when it can be read, otherwise the longest configured lifetime.
func (g *Guard) retainUntil(token string, now time.Time) time.Time {
	var claims sessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time.UTC()
	}
	return now.Add(g.lifetimes.longest())
}

// RevocationKey is the form of token handed to the blacklist. Each segment is
// decoded leniently and re-encoded, so spellings of one token that differ only
// in unused trailing bits or stray line breaks share a single entry. Anything
// that does not decode is keyed as given.
func RevocationKey(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return token
	}
	for i, p := range parts {
		raw, err := base64.RawURLEncoding.DecodeString(p)
		if err != nil {
			return token
		}
		parts[i] = base64.RawURLEncoding.EncodeToString(raw)
	}
	return strings.Join(parts, ".")
}

// splitSegments rejects anything that is not three non-empty dot-separated
// segments. An empty signature segment counts as unsigned, which is a
// structural defect.
func splitSegments(token string) ([]string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}
	return parts, true
}

var strictSegment = base64.RawURLEncoding.Strict()

// canonicalSegment reports whether seg uses only the base64url alphabet and
// is the exact encoding of the bytes it decodes to. The decoder alone skips
// line breaks, so the alphabet is checked first.
func canonicalSegment(seg string) bool {
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	_, err := strictSegment.DecodeString(seg)
	return err == nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	}
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}
