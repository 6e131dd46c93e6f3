package auth

import "errors"

// Authentication failures (401).
var (
	ErrMissingToken          = errors.New("auth: token missing")
	ErrMalformed             = errors.New("auth: token malformed")
	ErrInvalidSignature      = errors.New("auth: invalid token signature")
	ErrExpired               = errors.New("auth: token expired")
	ErrRevoked               = errors.New("auth: token revoked")
	ErrRevocationUnavailable = errors.New("auth: revocation status unavailable")
)

// Authorization failure (403).
var ErrInsufficientRole = errors.New("auth: insufficient role")

// IsAuthorizationError reports whether err means "authenticated, wrong role"
// as opposed to "not authenticated".
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrInsufficientRole)
}
